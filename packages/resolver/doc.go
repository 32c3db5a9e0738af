// Package resolver turns a reference to a stored request into a response,
// either the most recent one on record or a freshly sent one.
//
// Resolution runs in two phases. First a pure policy decision is made from
// the requested Behavior, the render Purpose and whether a cached response
// exists. Only if that decision is DecisionSend is the request rendered and
// sent, at most once. Rendering a request may evaluate template functions
// that resolve other requests (or the same one); a request that is already
// being rendered further up the chain is never sent again, which keeps
// self-referencing requests from recursing.
package resolver
