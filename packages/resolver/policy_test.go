package resolver

import (
	"testing"

	"github.com/abdul-hamid-achik/hitref/packages/core/template"
	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	purposes := []template.Purpose{template.PurposePreview, template.PurposeSend}

	t.Run("smart reuses cache for any purpose", func(t *testing.T) {
		for _, p := range purposes {
			assert.Equal(t, DecisionReuse, Decide(BehaviorSmart, p, true), p)
			assert.Equal(t, DecisionSend, Decide(BehaviorSmart, p, false), p)
		}
	})

	t.Run("always during preview follows smart", func(t *testing.T) {
		assert.Equal(t, DecisionReuse, Decide(BehaviorAlways, template.PurposePreview, true))
		assert.Equal(t, DecisionSend, Decide(BehaviorAlways, template.PurposePreview, false))
	})

	t.Run("always during send ignores cache", func(t *testing.T) {
		assert.Equal(t, DecisionSend, Decide(BehaviorAlways, template.PurposeSend, true))
		assert.Equal(t, DecisionSend, Decide(BehaviorAlways, template.PurposeSend, false))
	})

	t.Run("never fails without cache", func(t *testing.T) {
		for _, p := range purposes {
			assert.Equal(t, DecisionFail, Decide(BehaviorNever, p, false), p)
			assert.Equal(t, DecisionReuse, Decide(BehaviorNever, p, true), p)
		}
	})

	t.Run("unknown behaves as smart", func(t *testing.T) {
		for _, p := range purposes {
			assert.Equal(t, DecisionReuse, Decide(Behavior("bogus"), p, true), p)
			assert.Equal(t, DecisionSend, Decide(Behavior(""), p, false), p)
		}
	})
}

func TestEffective_DoesNotMutateMode(t *testing.T) {
	mode := BehaviorAlways
	assert.Equal(t, BehaviorSmart, Effective(mode, template.PurposePreview))
	assert.Equal(t, BehaviorAlways, mode)
	assert.Equal(t, BehaviorAlways, Effective(mode, template.PurposeSend))
}

func TestParseBehavior(t *testing.T) {
	tests := []struct {
		in   string
		want Behavior
	}{
		{"", BehaviorSmart},
		{"smart", BehaviorSmart},
		{"ALWAYS", BehaviorAlways},
		{" never ", BehaviorNever},
		{"sometimes", BehaviorSmart},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseBehavior(tt.in))
		})
	}
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "reuse", DecisionReuse.String())
	assert.Equal(t, "send", DecisionSend.String())
	assert.Equal(t, "fail", DecisionFail.String())
	assert.Equal(t, "unknown", Decision(42).String())
}
