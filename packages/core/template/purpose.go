package template

import (
	"fmt"
	"strings"
)

// Purpose says why a template is being rendered. It is fixed for the whole
// of one render pass.
type Purpose string

const (
	// PurposePreview is a live editor or watch-mode refresh. Previews run
	// often and must not trigger network traffic on their own.
	PurposePreview Purpose = "preview"
	// PurposeSend renders a request that is about to go out.
	PurposeSend Purpose = "send"
)

func ParsePurpose(s string) (Purpose, error) {
	switch Purpose(strings.ToLower(strings.TrimSpace(s))) {
	case PurposePreview:
		return PurposePreview, nil
	case PurposeSend:
		return PurposeSend, nil
	default:
		return "", fmt.Errorf("unknown render purpose %q (expected preview or send)", s)
	}
}

func (p Purpose) String() string {
	return string(p)
}
