package dom

import (
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/tomyan/screenwrap/wrap"
)

// queries implements wrap.Queries over the descendants of scope.
type queries struct {
	screen *Screen
	scope  *html.Node
}

func (q queries) GetByText(text string) (wrap.Element, error) {
	return q.one("text", text, q.byText, true)
}

func (q queries) QueryByText(text string) (wrap.Element, error) {
	return q.one("text", text, q.byText, false)
}

func (q queries) GetAllByText(text string) ([]wrap.Element, error) {
	return q.all("text", text, q.byText, true)
}

func (q queries) QueryAllByText(text string) ([]wrap.Element, error) {
	return q.all("text", text, q.byText, false)
}

func (q queries) GetByTestID(id string) (wrap.Element, error) {
	return q.one("test id", id, q.byTestID, true)
}

func (q queries) QueryByTestID(id string) (wrap.Element, error) {
	return q.one("test id", id, q.byTestID, false)
}

func (q queries) GetAllByTestID(id string) ([]wrap.Element, error) {
	return q.all("test id", id, q.byTestID, true)
}

func (q queries) QueryAllByTestID(id string) ([]wrap.Element, error) {
	return q.all("test id", id, q.byTestID, false)
}

func (q queries) one(by, value string, find func(string) ([]*html.Node, error), required bool) (wrap.Element, error) {
	nodes, err := find(value)
	if err != nil {
		return nil, err
	}
	switch {
	case len(nodes) == 1:
		return q.screen.element(nodes[0]), nil
	case len(nodes) == 0 && !required:
		return nil, nil
	}
	return nil, &QueryError{By: by, Value: value, Count: len(nodes)}
}

func (q queries) all(by, value string, find func(string) ([]*html.Node, error), required bool) ([]wrap.Element, error) {
	nodes, err := find(value)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 && required {
		return nil, &QueryError{By: by, Value: value}
	}
	els := make([]wrap.Element, 0, len(nodes))
	for _, n := range nodes {
		els = append(els, q.screen.element(n))
	}
	return els, nil
}

func (q queries) byTestID(id string) ([]*html.Node, error) {
	return q.xpath(fmt.Sprintf(".//*[@%s=%s]", q.screen.engine.testIDAttr, xpathLiteral(id)))
}

// byText matches elements whose own text nodes, whitespace collapsed,
// equal text. Script and style contents never match.
func (q queries) byText(text string) ([]*html.Node, error) {
	candidates, err := q.xpath(".//*")
	if err != nil {
		return nil, err
	}
	var matched []*html.Node
	for _, n := range candidates {
		if n.Data == "script" || n.Data == "style" {
			continue
		}
		if ownText(n) == text {
			matched = append(matched, n)
		}
	}
	return matched, nil
}

func (q queries) xpath(expr string) ([]*html.Node, error) {
	q.screen.mu.RLock()
	defer q.screen.mu.RUnlock()

	nodes, err := htmlquery.QueryAll(q.scope, expr)
	if err != nil {
		return nil, fmt.Errorf("evaluating %q: %w", expr, err)
	}
	return nodes, nil
}

func ownText(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// xpathLiteral quotes s as an XPath 1.0 string literal.
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	return "concat('" + strings.Join(parts, `', "'", '`) + "')"
}

// errQueries fails every query with err.
type errQueries struct {
	err error
}

func (q errQueries) GetByText(string) (wrap.Element, error)          { return nil, q.err }
func (q errQueries) QueryByText(string) (wrap.Element, error)        { return nil, q.err }
func (q errQueries) GetAllByText(string) ([]wrap.Element, error)     { return nil, q.err }
func (q errQueries) QueryAllByText(string) ([]wrap.Element, error)   { return nil, q.err }
func (q errQueries) GetByTestID(string) (wrap.Element, error)        { return nil, q.err }
func (q errQueries) QueryByTestID(string) (wrap.Element, error)      { return nil, q.err }
func (q errQueries) GetAllByTestID(string) ([]wrap.Element, error)   { return nil, q.err }
func (q errQueries) QueryAllByTestID(string) ([]wrap.Element, error) { return nil, q.err }
