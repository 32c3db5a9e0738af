// Package templatefn provides the template functions that pull values out of
// other requests and their responses:
//
//	{{ response.header(request="rq_...", header="Set-Cookie") }}
//	{{ response.body.path(request="rq_...", path="$.token", behavior="always") }}
//	{{ response.body.raw(request="rq_...") }}
//	{{ request.body(request="rq_...") }}
//	{{ request.header(request="rq_...", header="Authorization") }}
//
// Every function yields no value, rather than an error, when an argument is
// missing or nothing can be resolved.
package templatefn
