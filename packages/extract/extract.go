package extract

// attempt is one step of the fallback chain. ok is false when the body could
// not be parsed or the path could not be evaluated in that format.
type attempt func(body, path string) (value string, ok bool)

var chain = []attempt{
	extractJSONPath,
	extractXPath,
}

// Extract evaluates path against body, JSON first and XML second. It returns
// false only when every format failed.
func Extract(body, path string) (string, bool) {
	for _, try := range chain {
		if value, ok := try(body, path); ok {
			return value, true
		}
	}
	return "", false
}
