package template

import "context"

type renderingKey struct{}

// renderChain is an immutable list of request ids whose render is in progress
// further up the call stack.
type renderChain struct {
	id     string
	parent *renderChain
}

// WithRendering marks requestID as being rendered for the lifetime of ctx.
func WithRendering(ctx context.Context, requestID string) context.Context {
	parent, _ := ctx.Value(renderingKey{}).(*renderChain)
	return context.WithValue(ctx, renderingKey{}, &renderChain{id: requestID, parent: parent})
}

// IsRendering reports whether requestID is already being rendered somewhere
// up the chain that led to ctx.
func IsRendering(ctx context.Context, requestID string) bool {
	chain, _ := ctx.Value(renderingKey{}).(*renderChain)
	for ; chain != nil; chain = chain.parent {
		if chain.id == requestID {
			return true
		}
	}
	return false
}

// RenderDepth is the number of nested request renders leading to ctx.
func RenderDepth(ctx context.Context) int {
	n := 0
	chain, _ := ctx.Value(renderingKey{}).(*renderChain)
	for ; chain != nil; chain = chain.parent {
		n++
	}
	return n
}
