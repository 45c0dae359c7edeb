// Package fixture provides the UI trees shared by tests.
package fixture

import "github.com/tomyan/screenwrap/dom"

// TestComponent is a container holding three spans, two of them active, and
// a button wired to onClick. A nil onClick leaves the button without a
// handler.
func TestComponent(onClick dom.Handler) dom.Node {
	button := []dom.Item{
		dom.TestID("test-button"),
		dom.Attr("data-value", "Test Button"),
		dom.Text("\n            Test Button\n        "),
	}
	if onClick != nil {
		button = append(button, dom.OnClick(onClick))
	}

	return dom.El("div",
		dom.Attr("class", "test-container"),
		dom.TestID("test-container"),
		dom.El("div",
			dom.TestID("spans-container"),
			span("Span 1", true),
			span("Span 2", false),
			span("Span 3", true),
		),
		dom.El("div",
			dom.TestID("button-container"),
			dom.El("button", button...),
		),
	)
}

func span(value string, active bool) dom.Node {
	items := []dom.Item{
		dom.TestID("span"),
		dom.Attr("data-value", value),
		dom.Text(value),
	}
	if active {
		items = append(items, dom.BoolAttr("data-active"))
	}
	return dom.El("span", items...)
}

// Markup is TestComponent's HTML without handlers.
const Markup = `<div class="test-container" data-testid="test-container">` +
	`<div data-testid="spans-container">` +
	`<span data-testid="span" data-value="Span 1" data-active="">Span 1</span>` +
	`<span data-testid="span" data-value="Span 2">Span 2</span>` +
	`<span data-testid="span" data-value="Span 3" data-active="">Span 3</span>` +
	`</div>` +
	`<div data-testid="button-container">` +
	`<button data-testid="test-button" data-value="Test Button">Test Button</button>` +
	`</div>` +
	`</div>`
