// Package extract pulls a single value out of a response body.
//
// The body's declared content type is not consulted. A path is first tried as
// a JSONPath query against the body parsed as JSON; when that fails it is
// tried as an XPath query against the body parsed as XML:
//
//	Extract(`{"a":{"b":2}}`, "$.a")      // `{"b":2}`, true
//	Extract(`<a><b>2</b></a>`, "/a/b")   // "2", true
//	Extract(`not json or xml`, "$.a")    // "", false
//
// A body that parses but has no match yields an empty string, which is
// distinct from the absent result returned when neither attempt succeeds.
package extract
