package resolver

import (
	"strings"

	"github.com/abdul-hamid-achik/hitref/packages/core/template"
)

// Behavior selects whether a cached response may be reused.
type Behavior string

const (
	// BehaviorSmart reuses the latest response and sends only when there is none.
	BehaviorSmart Behavior = "smart"
	// BehaviorAlways sends a new request on every resolution, except during
	// previews where it acts like BehaviorSmart.
	BehaviorAlways Behavior = "always"
	// BehaviorNever only ever reuses a cached response. It is not offered as
	// an option but is still honoured when stored configuration names it.
	BehaviorNever Behavior = "never"
)

// DefaultBehavior is used when no behavior is given.
const DefaultBehavior = BehaviorSmart

// Behaviors lists the selectable behaviors.
var Behaviors = []Behavior{BehaviorSmart, BehaviorAlways}

// ParseBehavior maps user input to a Behavior. Empty and unknown values fall
// back to DefaultBehavior.
func ParseBehavior(s string) Behavior {
	switch b := Behavior(strings.ToLower(strings.TrimSpace(s))); b {
	case BehaviorSmart, BehaviorAlways, BehaviorNever:
		return b
	default:
		return DefaultBehavior
	}
}

func (b Behavior) String() string {
	return string(b)
}

// Decision is the outcome of the policy.
type Decision int

const (
	// DecisionReuse returns the cached response.
	DecisionReuse Decision = iota
	// DecisionSend renders and sends the request.
	DecisionSend
	// DecisionFail resolves to nothing without sending.
	DecisionFail
)

func (d Decision) String() string {
	switch d {
	case DecisionReuse:
		return "reuse"
	case DecisionSend:
		return "send"
	case DecisionFail:
		return "fail"
	default:
		return "unknown"
	}
}

// Effective returns the behavior actually applied for purpose. Previews turn
// "always" into "smart" so that frequent refreshes do not flood the network.
// Unknown behaviors are treated as "smart".
func Effective(mode Behavior, purpose template.Purpose) Behavior {
	switch mode {
	case BehaviorAlways:
		if purpose == template.PurposePreview {
			return BehaviorSmart
		}
		return BehaviorAlways
	case BehaviorNever:
		return BehaviorNever
	default:
		return BehaviorSmart
	}
}

// Decide is the pure resolution policy.
func Decide(mode Behavior, purpose template.Purpose, hasCached bool) Decision {
	switch Effective(mode, purpose) {
	case BehaviorAlways:
		return DecisionSend
	case BehaviorNever:
		if !hasCached {
			return DecisionFail
		}
		return DecisionReuse
	default:
		if hasCached {
			return DecisionReuse
		}
		return DecisionSend
	}
}
