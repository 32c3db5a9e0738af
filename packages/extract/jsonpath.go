package extract

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"github.com/tidwall/gjson"
)

// jsonOptions writes values without HTML escaping. Keys are sorted only when
// a composite has to be re-encoded from decoded data.
var jsonOptions = func() ojg.Options {
	opts := ojg.DefaultOptions
	opts.Sort = true
	opts.HTMLUnsafe = true
	return opts
}()

// jsonMatch is one JSONPath result. raw is the compact JSON text of the
// match, taken from the body so object keys keep their document order.
type jsonMatch struct {
	value  any
	raw    string
	offset int
}

func queryJSON(body, path string) ([]jsonMatch, error) {
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("body is not JSON: empty")
	}
	data, err := oj.ParseString(body)
	if err != nil {
		return nil, fmt.Errorf("body is not JSON: %w", err)
	}
	expr, err := jp.ParseString(path)
	if err != nil {
		return nil, fmt.Errorf("invalid JSONPath expression %q: %w", path, err)
	}

	doc := gjson.Parse(body)
	locs := expr.Locate(data, 0)
	if len(expr) == 1 {
		// A lone root or current-node selector locates nothing but selects the document.
		switch expr[0].(type) {
		case jp.Root, jp.At:
			locs = []jp.Expr{expr}
		}
	}
	matches := make([]jsonMatch, 0, len(locs))
	ordered := true
	for _, loc := range locs {
		m := jsonMatch{value: loc.First(data), offset: -1}
		res, offset, ok := locateRaw(doc, loc)
		if ok {
			m.offset = offset
		} else {
			ordered = false
		}
		m.raw = rawJSON(res, ok, m.value)
		matches = append(matches, m)
	}

	// Wildcards and descents visit object members in map order.
	if ordered && fansOut(expr) {
		sort.SliceStable(matches, func(i, j int) bool { return matches[i].offset < matches[j].offset })
	}
	return matches, nil
}

func fansOut(expr jp.Expr) bool {
	for _, frag := range expr {
		switch frag.(type) {
		case jp.Wildcard, jp.Descent:
			return true
		}
	}
	return false
}

// locateRaw follows a normalized location through the undecoded document and
// returns the matched value with its byte offset in the body.
func locateRaw(doc gjson.Result, loc jp.Expr) (gjson.Result, int, bool) {
	res := doc
	for _, frag := range loc {
		switch f := frag.(type) {
		case jp.Root, jp.At:
			continue
		case jp.Child:
			if f == "" {
				return gjson.Result{}, -1, false
			}
			res = res.Get(gjson.Escape(string(f)))
		case jp.Nth:
			res = res.Get(strconv.Itoa(int(f)))
		default:
			return gjson.Result{}, -1, false
		}
		if !res.Exists() {
			return gjson.Result{}, -1, false
		}
	}
	return res, res.Index, true
}

// rawJSON is the compact text of a composite as written in the body. Scalars,
// and values gjson could not address, are encoded from the decoded value.
func rawJSON(res gjson.Result, found bool, value any) string {
	switch value.(type) {
	case map[string]any, []any:
		if found {
			return res.Get("@ugly").Raw
		}
	}
	return oj.JSON(value, &jsonOptions)
}

func extractJSONPath(body, path string) (string, bool) {
	matches, err := queryJSON(body, path)
	if err != nil {
		return "", false
	}
	if len(matches) == 0 {
		return "", true
	}
	return jsonText(matches[0]), true
}

// jsonText renders composites as JSON and scalars as plain text. null renders
// as the empty string.
func jsonText(m jsonMatch) string {
	switch val := m.value.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	case float64:
		return formatFloat(val)
	case map[string]any, []any:
		return m.raw
	default:
		return fmt.Sprintf("%v", val)
	}
}

// formatFloat writes numbers the way JavaScript's String does: plain decimals
// in [1e-6, 1e21), otherwise exponent form without padding (1e-7, 1e+21).
func formatFloat(f float64) string {
	abs := math.Abs(f)
	if abs == 0 || (abs >= 1e-6 && abs < 1e21) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	digits := strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mantissa + "e" + sign + digits
}

// FilterJSONPath returns every match of expr as a JSON array indented by two
// spaces, one element per line.
func FilterJSONPath(body, expr string) (string, error) {
	matches, err := queryJSON(body, expr)
	if err != nil {
		return "", err
	}
	raws := make([]string, len(matches))
	for i, m := range matches {
		raws[i] = m.raw
	}
	array := "[" + strings.Join(raws, ",") + "]"
	return strings.TrimSuffix(gjson.Get(array, `@pretty:{"width":0}`).Raw, "\n"), nil
}
