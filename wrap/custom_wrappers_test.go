package wrap_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomyan/screenwrap/dom"
	"github.com/tomyan/screenwrap/internal/fixture"
	"github.com/tomyan/screenwrap/wrap"
)

type buttonWrapper struct {
	ClickTestButton func() error
}

type containerWrapper struct {
	FindSecondSpan func() (wrap.Element, error)
}

func wrapperForButton(o *wrap.Object) wrap.Props {
	return wrap.Props{
		"clickTestButton": func() error {
			el, err := o.GetByText("Test Button")
			if err != nil {
				return err
			}
			return o.Within(el).Click()
		},
	}
}

func wrapperForContainer(o *wrap.Object) wrap.Props {
	return wrap.Props{
		"findSecondSpan": func() (wrap.Element, error) {
			return o.QueryByText("Span 2")
		},
	}
}

func countClicks(n *int) dom.Handler {
	return func(*dom.Event) { *n++ }
}

func TestMount_PreservesQueriesWithoutWrappers(t *testing.T) {
	obj, err := wrap.Mount(dom.New(), fixture.TestComponent(nil))
	require.NoError(t, err)

	el, err := obj.QueryByTestID("test-container")

	require.NoError(t, err)
	assert.NotNil(t, el)
	assert.Empty(t, obj.Keys())
}

func TestMount_SingleWrapper(t *testing.T) {
	var clicks int
	obj, err := wrap.MountAs[buttonWrapper](dom.New(), fixture.TestComponent(countClicks(&clicks)), wrapperForButton)
	require.NoError(t, err)

	require.NoError(t, obj.Custom.ClickTestButton())

	assert.Equal(t, 1, clicks)
}

func TestMount_MultipleWrappers(t *testing.T) {
	type myWrapper struct {
		ClickTestButton func() error
		FindSecondSpan  func() (wrap.Element, error)
	}
	var clicks int
	obj, err := wrap.MountAs[myWrapper](dom.New(), fixture.TestComponent(countClicks(&clicks)),
		wrapperForButton, wrapperForContainer)
	require.NoError(t, err)

	require.NoError(t, obj.Custom.ClickTestButton())
	span, err := obj.Custom.FindSecondSpan()

	assert.Equal(t, 1, clicks)
	require.NoError(t, err)
	assert.NotNil(t, span)
}

type spanWrapper struct {
	DataValue func() string
	IsActive  func() bool
}

func wrapperForSpans(o *wrap.Object) wrap.Props {
	return wrap.Props{
		"dataValue": func() string {
			v, _ := o.BaseElement().Attribute("data-value")
			return v
		},
		"isActive": func() bool {
			_, ok := o.BaseElement().Attribute("data-active")
			return ok
		},
	}
}

type nestedContainerWrapper struct {
	ClickNestedButton        func() error
	AllActiveSpansDataValues func() ([]string, error)
}

var (
	customButtonWrapper = wrap.For[buttonWrapper](wrapperForButton)
	customSpanWrapper   = wrap.For[spanWrapper](wrapperForSpans)
)

func wrapperForNestedContainer(o *wrap.Object) wrap.Props {
	return wrap.Props{
		"clickNestedButton": func() error {
			container, err := o.GetByTestID("button-container")
			if err != nil {
				return err
			}
			button, err := customButtonWrapper(o.Within(container))
			if err != nil {
				return err
			}
			return button.Custom.ClickTestButton()
		},
		"allActiveSpansDataValues": func() ([]string, error) {
			els, err := o.GetAllByTestID("span")
			if err != nil {
				return nil, err
			}
			var values []string
			for _, el := range els {
				span, err := customSpanWrapper(o.Within(el))
				if err != nil {
					return nil, err
				}
				if span.Custom.IsActive() {
					values = append(values, span.Custom.DataValue())
				}
			}
			return values, nil
		},
	}
}

func TestNested_WrapperInsideWrapper(t *testing.T) {
	var clicks int
	obj, err := wrap.MountAs[nestedContainerWrapper](dom.New(), fixture.TestComponent(countClicks(&clicks)),
		wrapperForNestedContainer)
	require.NoError(t, err)

	require.NoError(t, obj.Custom.ClickNestedButton())

	assert.Equal(t, 1, clicks)
}

func TestNested_IndependentObjectPerElement(t *testing.T) {
	obj, err := wrap.MountAs[nestedContainerWrapper](dom.New(), fixture.TestComponent(nil),
		wrapperForNestedContainer)
	require.NoError(t, err)

	values, err := obj.Custom.AllActiveSpansDataValues()

	require.NoError(t, err)
	assert.Equal(t, []string{"Span 1", "Span 3"}, values)
}

func TestNamespaces_AvoidNameClashes(t *testing.T) {
	type dataValuer struct {
		DataValue func() (string, error)
	}
	type myWrapper struct {
		FirstSpan  dataValuer
		TestButton dataValuer
	}

	wrapperForFirstSpan := func(o *wrap.Object) wrap.Props {
		return wrap.Props{
			"firstSpan": wrap.Props{
				"dataValue": func() (string, error) {
					els, err := o.QueryAllByTestID("span")
					if err != nil {
						return "", err
					}
					v, _ := els[0].Attribute("data-value")
					return v, nil
				},
			},
		}
	}
	wrapperForTestButton := func(o *wrap.Object) wrap.Props {
		return wrap.Props{
			"testButton": wrap.Props{
				"dataValue": func() (string, error) {
					el, err := o.QueryByText("Test Button")
					if err != nil {
						return "", err
					}
					v, _ := el.Attribute("data-value")
					return v, nil
				},
			},
		}
	}

	obj, err := wrap.MountAs[myWrapper](dom.New(), fixture.TestComponent(nil), wrapperForFirstSpan, wrapperForTestButton)
	require.NoError(t, err)

	span, err := obj.Custom.FirstSpan.DataValue()
	require.NoError(t, err)
	button, err := obj.Custom.TestButton.DataValue()
	require.NoError(t, err)

	assert.Equal(t, "Span 1", span)
	assert.Equal(t, "Test Button", button)
}

func TestWithin_RootOnlyOperationsThrowOnDOM(t *testing.T) {
	for _, op := range []string{wrap.OpUnmount, wrap.OpAsFragment, wrap.OpRerender, wrap.OpDebug} {
		t.Run(fmt.Sprintf("should fail when calling %s", op), func(t *testing.T) {
			obj, err := wrap.Mount(dom.New(), fixture.TestComponent(nil))
			require.NoError(t, err)
			el, err := obj.QueryByText("Test Button")
			require.NoError(t, err)

			err = rootOnlyOps[op](obj.Within(el))

			assert.EqualError(t, err, rootOnlyMessage)
		})
	}
}

func TestCommonActions(t *testing.T) {
	tests := []struct {
		name  string
		on    func(dom.Handler) dom.Item
		act   func(o *wrap.Object) error
		event string
	}{
		{"click", dom.OnClick, func(o *wrap.Object) error { return o.Click() }, dom.EventClick},
		{"blur", dom.OnBlur, func(o *wrap.Object) error { return o.Blur() }, dom.EventBlur},
		{"focus", dom.OnFocus, func(o *wrap.Object) error { return o.Focus() }, dom.EventFocus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			tree := dom.El("button",
				tt.on(func(e *dom.Event) { got = append(got, e.Type) }),
				dom.Text("Test Button"),
			)
			obj, err := wrap.Mount(dom.New(), tree)
			require.NoError(t, err)
			el, err := obj.QueryByText("Test Button")
			require.NoError(t, err)

			require.NoError(t, tt.act(obj.Within(el)))

			assert.Equal(t, []string{tt.event}, got)
		})
	}
}

func TestCommonActions_TypeText(t *testing.T) {
	var got []string
	tree := dom.El("input",
		dom.TestID("test-input"),
		dom.OnChange(func(e *dom.Event) { got = append(got, e.Target.Value()) }),
	)
	obj, err := wrap.Mount(dom.New(), tree)
	require.NoError(t, err)
	el, err := obj.QueryByTestID("test-input")
	require.NoError(t, err)

	require.NoError(t, obj.Within(el).TypeText("some text"))

	assert.Equal(t, []string{"some text"}, got)
}
