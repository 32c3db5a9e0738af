package extract

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// xmlQuery is a compiled XPath split into its element path and an optional
// trailing attribute or text() selector.
type xmlQuery struct {
	path etree.Path
	attr string
	text bool
}

func compileXPath(expr string) (*xmlQuery, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("empty XPath expression")
	}
	// etree reads unknown syntax as element names; JSONPath never matches XML.
	if strings.HasPrefix(expr, "$") {
		return nil, fmt.Errorf("invalid XPath expression %q: JSONPath syntax", expr)
	}

	q := &xmlQuery{}
	elemPath := expr
	if strings.HasSuffix(elemPath, "/text()") {
		q.text = true
		elemPath = strings.TrimSuffix(elemPath, "/text()")
	} else if i := strings.LastIndex(elemPath, "/@"); i >= 0 {
		q.attr = elemPath[i+2:]
		elemPath = elemPath[:i]
		if q.attr == "" || strings.ContainsAny(q.attr, "/[]") {
			return nil, fmt.Errorf("invalid attribute selector in %q", expr)
		}
	}

	path, err := etree.CompilePath(elemPath)
	if err != nil {
		return nil, fmt.Errorf("invalid XPath expression %q: %w", expr, err)
	}
	q.path = path
	return q, nil
}

func parseXML(body string) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(body); err != nil {
		return nil, fmt.Errorf("body is not XML: %w", err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("body is not XML: no root element")
	}
	return doc, nil
}

// queryXML returns the text of each matched node. With markup set, matched
// elements are serialized whole instead of yielding their first child.
func queryXML(body, expr string, markup bool) ([]string, error) {
	doc, err := parseXML(body)
	if err != nil {
		return nil, err
	}
	q, err := compileXPath(expr)
	if err != nil {
		return nil, err
	}

	var values []string
	for _, el := range doc.FindElementsPath(q.path) {
		switch {
		case q.attr != "":
			if a := el.SelectAttr(q.attr); a != nil {
				values = append(values, a.Value)
			}
		case q.text:
			values = append(values, el.Text())
		case markup:
			values = append(values, serialize(el))
		default:
			values = append(values, firstChildText(el))
		}
	}
	return values, nil
}

func extractXPath(body, path string) (string, bool) {
	values, err := queryXML(body, path, false)
	if err != nil {
		return "", false
	}
	if len(values) == 0 {
		return "", true
	}
	return values[0], true
}

// firstChildText is the text form of an element's first child node: the
// character data itself, or the serialized markup of a child element.
func firstChildText(el *etree.Element) string {
	if len(el.Child) == 0 {
		return ""
	}
	switch tok := el.Child[0].(type) {
	case *etree.CharData:
		return tok.Data
	case *etree.Element:
		return serialize(tok)
	default:
		return ""
	}
}

func serialize(el *etree.Element) string {
	doc := etree.NewDocument()
	doc.SetRoot(el.Copy())
	s, err := doc.WriteToString()
	if err != nil {
		return ""
	}
	return s
}

// FilterXPath returns every match of expr, one per line. Matched elements are
// written as markup.
func FilterXPath(body, expr string) (string, error) {
	values, err := queryXML(body, expr, true)
	if err != nil {
		return "", err
	}
	return strings.Join(values, "\n"), nil
}
