package browser_test

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/tomyan/screenwrap/browser"
	"github.com/tomyan/screenwrap/dom"
	"github.com/tomyan/screenwrap/internal/fixture"
	"github.com/tomyan/screenwrap/internal/testutil"
	"github.com/tomyan/screenwrap/wrap"
)

const testPort = 9323

var chromeInstance *testutil.ChromeInstance

func TestMain(m *testing.M) {
	os.Exit(testutil.RunWithChrome(m, testPort, &chromeInstance))
}

func newEngine(t *testing.T, opts ...browser.Option) *browser.Engine {
	t.Helper()
	if chromeInstance == nil {
		t.Skip("Chrome not available")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts = append([]browser.Option{browser.WithLogger(zaptest.NewLogger(t))}, opts...)
	e, err := browser.Connect(ctx, "localhost", testPort, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func TestRender_AsFragment(t *testing.T) {
	e := newEngine(t)

	tree := fixture.TestComponent(nil)
	want, err := dom.HTML(tree)
	require.NoError(t, err)

	screen, err := e.Render(tree)
	require.NoError(t, err)

	fragment, err := screen.AsFragment()
	require.NoError(t, err)
	assert.Equal(t, want, fragment)
}

func TestQueries(t *testing.T) {
	e := newEngine(t)
	screen, err := e.Render(fixture.Markup)
	require.NoError(t, err)

	spans, err := screen.GetAllByTestID("span")
	require.NoError(t, err)
	var values []string
	for _, s := range spans {
		v, _ := s.Attribute("data-value")
		values = append(values, v)
	}
	assert.Equal(t, []string{"Span 1", "Span 2", "Span 3"}, values)

	button, err := screen.GetByText("Test Button")
	require.NoError(t, err)
	assert.Equal(t, "button", button.(*browser.Element).Tag())

	missing, err := screen.QueryByText("missing")
	require.NoError(t, err)
	assert.Nil(t, missing)

	none, err := screen.QueryAllByTestID("missing")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = screen.GetByTestID("span")
	assert.ErrorIs(t, err, dom.ErrMultipleMatches)

	_, err = screen.GetByText("nope")
	assert.ErrorIs(t, err, dom.ErrNoMatch)
	assert.EqualError(t, err, `unable to find an element by text: "nope"`)
}

func TestWithin_ScopesQueries(t *testing.T) {
	e := newEngine(t)
	screen, err := e.Render(fixture.Markup)
	require.NoError(t, err)

	buttons, err := screen.GetByTestID("button-container")
	require.NoError(t, err)

	_, err = e.Within(buttons).GetByText("Span 1")
	assert.ErrorIs(t, err, dom.ErrNoMatch)

	el, err := e.Within(buttons).GetByText("Test Button")
	require.NoError(t, err)
	v, ok := el.Attribute("data-value")
	assert.True(t, ok)
	assert.Equal(t, "Test Button", v)
}

const interactive = `<button data-testid="press" onclick="document.getElementById('out').textContent = 'clicked'">Press</button>` +
	`<input data-testid="field"` +
	` onfocus="document.getElementById('out').textContent = 'focused'"` +
	` onblur="document.getElementById('out').textContent = 'blurred'"` +
	` onchange="document.getElementById('out').textContent = 'changed:' + this.value">` +
	`<p id="out" data-testid="out"></p>`

func outText(t *testing.T, obj *wrap.Object) string {
	t.Helper()
	el, err := obj.GetByTestID("out")
	require.NoError(t, err)
	return el.Text()
}

func TestActions(t *testing.T) {
	e := newEngine(t)
	obj, err := wrap.Mount(e, interactive)
	require.NoError(t, err)

	press, err := obj.GetByTestID("press")
	require.NoError(t, err)
	require.NoError(t, obj.Within(press).Click())
	assert.Equal(t, "clicked", outText(t, obj))

	field, err := obj.GetByTestID("field")
	require.NoError(t, err)
	scoped := obj.Within(field)

	require.NoError(t, scoped.Focus())
	assert.Equal(t, "focused", outText(t, obj))

	require.NoError(t, scoped.Blur())
	assert.Equal(t, "blurred", outText(t, obj))

	require.NoError(t, scoped.TypeText("some text"))
	assert.Equal(t, "changed:some text", outText(t, obj))
}

func TestScopedObject_RejectsRootOperations(t *testing.T) {
	e := newEngine(t)
	obj, err := wrap.Mount(e, fixture.Markup)
	require.NoError(t, err)

	el, err := obj.GetByTestID("spans-container")
	require.NoError(t, err)
	scoped := obj.Within(el)

	assert.ErrorIs(t, scoped.Unmount(), wrap.ErrOperationNotSupported)
	_, err = scoped.AsFragment()
	assert.ErrorIs(t, err, wrap.ErrOperationNotSupported)

	// The guarded call never reached the screen.
	fragment, err := obj.AsFragment()
	require.NoError(t, err)
	assert.Equal(t, fixture.Markup, fragment)
}

func TestScreen_RerenderAndUnmount(t *testing.T) {
	e := newEngine(t)
	obj, err := wrap.Mount(e, `<p>one</p>`)
	require.NoError(t, err)

	require.NoError(t, obj.Rerender(dom.El("p", dom.Text("two"))))
	fragment, err := obj.AsFragment()
	require.NoError(t, err)
	assert.Equal(t, "<p>two</p>", fragment)

	require.NoError(t, obj.Unmount())
	require.NoError(t, obj.Unmount())
	fragment, err = obj.AsFragment()
	require.NoError(t, err)
	assert.Empty(t, fragment)
}

func TestScreen_Debug(t *testing.T) {
	var out bytes.Buffer
	e := newEngine(t, browser.WithDebugOutput(&out))
	screen, err := e.Render(`<div data-testid="box"><span>hi</span></div>`)
	require.NoError(t, err)

	require.NoError(t, screen.Debug())
	dump := out.String()
	assert.True(t, strings.HasPrefix(dump, "<body>\n"), dump)
	assert.Contains(t, dump, `    <div data-testid="box">`)
	assert.Contains(t, dump, "        hi\n")
}

func TestRender_RootQueriesCoverWholeBody(t *testing.T) {
	e := newEngine(t)
	first, err := e.Render(dom.El("p", dom.TestID("shared"), dom.Text("first")))
	require.NoError(t, err)
	second, err := e.Render(dom.El("p", dom.TestID("shared"), dom.Text("second")))
	require.NoError(t, err)

	_, err = second.GetByTestID("shared")
	assert.ErrorIs(t, err, dom.ErrMultipleMatches)

	mine, err := e.Within(second.Container()).GetByTestID("shared")
	require.NoError(t, err)
	assert.Equal(t, "second", mine.Text())

	require.NoError(t, first.Unmount())
	only, err := second.GetByTestID("shared")
	require.NoError(t, err)
	assert.Equal(t, "second", only.Text())
}

func TestCustomTestIDAttribute(t *testing.T) {
	e := newEngine(t, browser.WithTestIDAttribute("data-qa"))
	screen, err := e.Render(`<span data-qa="x">qa</span><span data-testid="x">default</span>`)
	require.NoError(t, err)

	el, err := screen.GetByTestID("x")
	require.NoError(t, err)
	assert.Equal(t, "qa", el.Text())
}
