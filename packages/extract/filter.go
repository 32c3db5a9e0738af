package extract

import "fmt"

// Filter applies expr to body as a JSONPath filter, then as an XPath filter,
// and returns every match rather than only the first.
func Filter(body, expr string) (string, error) {
	out, jsonErr := FilterJSONPath(body, expr)
	if jsonErr == nil {
		return out, nil
	}
	out, xmlErr := FilterXPath(body, expr)
	if xmlErr == nil {
		return out, nil
	}
	return "", fmt.Errorf("filter %q matched neither format: %v; %v", expr, jsonErr, xmlErr)
}
