// Package builtin provides the general-purpose template functions that are
// available in every hitref workspace.
//
// Available functions:
//   - uuid(): Generate a random UUID v4
//   - now(), date(format): Current time
//   - timestamp(), timestampMs(): Current Unix time
//   - random(min, max): Random integer in range
//   - randomString(length): Random alphanumeric string
//   - base64(value), base64Decode(value): Base64 encoding
//   - urlEncode(value), urlDecode(value): Query escaping
//
// Functions are invoked using the {{ name(args) }} syntax.
package builtin
