// Package runner renders and sends stored requests.
//
// It provides the capabilities the response resolver depends on:
//   - Looking up stored requests by id
//   - Rendering a request's URL, header values and body through the template engine
//   - Sending a rendered request and recording the response in history
//
// A Runner never retries and performs exactly one exchange per Send.
package runner
