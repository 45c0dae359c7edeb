package browser

import (
	"context"
	"fmt"
	"strings"

	"github.com/tomyan/screenwrap/dom"
	"github.com/tomyan/screenwrap/wrap"
)

// matchTextFunction returns the descendants of this whose own text nodes,
// whitespace collapsed, equal text. Script and style contents never match.
const matchTextFunction = `function(text) {
	const norm = s => s.split(/\s+/).filter(Boolean).join(' ');
	return Array.from(this.querySelectorAll('*')).filter(el => {
		if (el.localName === 'script' || el.localName === 'style') {
			return false;
		}
		let own = '';
		for (const c of el.childNodes) {
			if (c.nodeType === Node.TEXT_NODE) {
				own += c.data;
			}
		}
		return norm(own) === text;
	});
}`

// queries runs queries against the subtree below scope.
type queries struct {
	engine *Engine
	scope  int64
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

type finder func(ctx context.Context, value string) ([]int64, error)

func (q queries) one(by, value string, find finder, required bool) (wrap.Element, error) {
	els, err := q.find(by, value, find)
	if err != nil {
		return nil, err
	}
	switch {
	case len(els) == 1:
		return els[0], nil
	case len(els) == 0 && !required:
		return nil, nil
	}
	return nil, &dom.QueryError{By: by, Value: value, Count: len(els)}
}

func (q queries) all(by, value string, find finder, required bool) ([]wrap.Element, error) {
	els, err := q.find(by, value, find)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 && required {
		return nil, &dom.QueryError{By: by, Value: value}
	}
	return els, nil
}

func (q queries) find(by, value string, find finder) ([]wrap.Element, error) {
	ctx, cancel := q.engine.callContext()
	defer cancel()

	nodeIDs, err := find(ctx, value)
	if err != nil {
		return nil, fmt.Errorf("querying by %s %q: %w", by, value, err)
	}
	els := make([]wrap.Element, 0, len(nodeIDs))
	for _, id := range nodeIDs {
		el, err := q.engine.element(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("querying by %s %q: %w", by, value, err)
		}
		els = append(els, el)
	}
	return els, nil
}

func (q queries) byTestID(ctx context.Context, id string) ([]int64, error) {
	selector := fmt.Sprintf("[%s=%s]", q.engine.testIDAttr, cssString(id))
	return q.engine.client.QuerySelectorAll(ctx, q.engine.targetID, q.scope, selector)
}

func (q queries) byText(ctx context.Context, text string) ([]int64, error) {
	return q.engine.client.NodeElements(ctx, q.engine.targetID, q.scope, matchTextFunction, text)
}

// cssString quotes s as a CSS string literal.
func cssString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"' || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\a `)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\%x `, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
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
