package builtin

import (
	"context"
	"encoding/base64"
	"math/rand"
	"net/url"
	"strconv"
	"time"

	"github.com/abdul-hamid-achik/hitref/packages/core/template"
	"github.com/google/uuid"
)

const alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// simple adapts a context-free function to template.Func.
func simple(fn func(args template.Args) (string, bool)) template.Func {
	return func(_ context.Context, call *template.Call) (string, bool) {
		return fn(call.Args)
	}
}

// Definitions returns the builtin function set.
func Definitions() []*template.Definition {
	valueArg := []template.Arg{{Name: "value", Label: "Value"}}
	return []*template.Definition{
		{Name: "now", Description: "Current UTC time in RFC 3339", Fn: simple(funcNow)},
		{Name: "timestamp", Description: "Current Unix timestamp in seconds", Fn: simple(funcTimestamp)},
		{Name: "timestampMs", Description: "Current Unix timestamp in milliseconds", Fn: simple(funcTimestampMs)},
		{Name: "uuid", Description: "Random UUID v4", Fn: simple(funcUUID)},
		{
			Name:        "random",
			Description: "Random integer between min and max, inclusive",
			Args: []template.Arg{
				{Name: "min", Label: "Minimum", Default: "0", Optional: true},
				{Name: "max", Label: "Maximum", Default: "100", Optional: true},
			},
			Fn: simple(funcRandom),
		},
		{
			Name:        "randomString",
			Description: "Random alphanumeric string",
			Args:        []template.Arg{{Name: "length", Label: "Length", Default: "16", Optional: true}},
			Fn:          simple(funcRandomString),
		},
		{Name: "base64", Description: "Base64-encode a value", Args: valueArg, Fn: simple(funcBase64)},
		{Name: "base64Decode", Description: "Decode a base64 value", Args: valueArg, Fn: simple(funcBase64Decode)},
		{Name: "urlEncode", Description: "Query-escape a value", Args: valueArg, Fn: simple(funcURLEncode)},
		{Name: "urlDecode", Description: "Unescape a query-escaped value", Args: valueArg, Fn: simple(funcURLDecode)},
		{
			Name:        "date",
			Description: "Current UTC date using a Go time layout",
			Args:        []template.Arg{{Name: "format", Label: "Layout", Default: "2006-01-02", Optional: true}},
			Fn:          simple(funcDate),
		},
	}
}

// Register adds every builtin to e.
func Register(e *template.Engine) {
	for _, def := range Definitions() {
		e.Register(def)
	}
}

func funcNow(_ template.Args) (string, bool) {
	return time.Now().UTC().Format(time.RFC3339), true
}

func funcTimestamp(_ template.Args) (string, bool) {
	return strconv.FormatInt(time.Now().Unix(), 10), true
}

func funcTimestampMs(_ template.Args) (string, bool) {
	return strconv.FormatInt(time.Now().UnixMilli(), 10), true
}

func funcUUID(_ template.Args) (string, bool) {
	return uuid.New().String(), true
}

func funcRandom(args template.Args) (string, bool) {
	min, err := strconv.Atoi(args.Get("min"))
	if err != nil {
		return "", false
	}
	max, err := strconv.Atoi(args.Get("max"))
	if err != nil || max < min {
		return "", false
	}
	return strconv.Itoa(rand.Intn(max-min+1) + min), true
}

func funcRandomString(args template.Args) (string, bool) {
	length, err := strconv.Atoi(args.Get("length"))
	if err != nil || length < 0 {
		return "", false
	}
	return randomString(length, alphanumeric), true
}

func funcBase64(args template.Args) (string, bool) {
	return base64.StdEncoding.EncodeToString([]byte(args.Get("value"))), true
}

func funcBase64Decode(args template.Args) (string, bool) {
	decoded, err := base64.StdEncoding.DecodeString(args.Get("value"))
	if err != nil {
		return "", false
	}
	return string(decoded), true
}

func funcURLEncode(args template.Args) (string, bool) {
	return url.QueryEscape(args.Get("value")), true
}

func funcURLDecode(args template.Args) (string, bool) {
	decoded, err := url.QueryUnescape(args.Get("value"))
	if err != nil {
		return args.Get("value"), true
	}
	return decoded, true
}

func funcDate(args template.Args) (string, bool) {
	return time.Now().UTC().Format(args.Get("format")), true
}

func randomString(length int, charset string) string {
	result := make([]byte, length)
	for i := range result {
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
