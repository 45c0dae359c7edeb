package wrap_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomyan/screenwrap/wrap"
)

const rootOnlyMessage = "This operation is only supported at root element!"

var rootOnlyOps = map[string]func(o *wrap.Object) error{
	wrap.OpUnmount: func(o *wrap.Object) error { return o.Unmount() },
	wrap.OpAsFragment: func(o *wrap.Object) error {
		_, err := o.AsFragment()
		return err
	},
	wrap.OpRerender: func(o *wrap.Object) error { return o.Rerender("tree") },
	wrap.OpDebug:    func(o *wrap.Object) error { return o.Debug() },
}

func TestScoped_RootOnlyOperationsFail(t *testing.T) {
	for op, call := range rootOnlyOps {
		t.Run(op, func(t *testing.T) {
			engine, root := mountFake(t)
			el, err := root.GetByTestID("item")
			require.NoError(t, err)

			err = call(wrap.Within(engine, el))

			require.Error(t, err)
			assert.Equal(t, rootOnlyMessage, err.Error())
			assert.ErrorIs(t, err, wrap.ErrOperationNotSupported)

			var unsupported *wrap.UnsupportedError
			require.True(t, errors.As(err, &unsupported))
			assert.Equal(t, op, unsupported.Op)
			assert.Empty(t, engine.screen.calls, "screen must not be reached")
		})
	}
}

func TestScoped_ComposedObjectKeepsGuards(t *testing.T) {
	engine, root := mountFake(t)
	el, err := root.GetByTestID("item")
	require.NoError(t, err)

	scoped := wrap.Compose(wrap.Within(engine, el), constant("x", 1))

	assert.ErrorIs(t, scoped.Unmount(), wrap.ErrOperationNotSupported)
	assert.Equal(t, wrap.ElementScope, scoped.Scope())
}

func TestRoot_RootOnlyOperationsDelegate(t *testing.T) {
	for op, call := range rootOnlyOps {
		t.Run(op, func(t *testing.T) {
			engine, root := mountFake(t, constant("x", 1))

			require.NoError(t, call(root))

			assert.Equal(t, []string{op}, engine.screen.calls)
		})
	}
}

func TestRoot_AsFragmentReturnsScreenSnapshot(t *testing.T) {
	_, root := mountFake(t)

	fragment, err := root.AsFragment()

	require.NoError(t, err)
	assert.Equal(t, "<p>fragment</p>", fragment)
}

func TestRoot_HasNoActions(t *testing.T) {
	engine, root := mountFake(t)

	assert.Nil(t, root.Actions)
	assert.Equal(t, wrap.RootScope, root.Scope())
	assert.Same(t, engine.screen.body, root.BaseElement())
	assert.Same(t, engine.screen.container, root.Container())
	assert.Same(t, engine, root.Engine())
}

func TestRoot_ActionsFailWithoutElement(t *testing.T) {
	engine, root := mountFake(t)

	actions := map[string]func() error{
		"click":     root.Click,
		"focus":     root.Focus,
		"blur":      root.Blur,
		"type text": func() error { return root.TypeText("hello") },
	}
	for op, act := range actions {
		t.Run(op, func(t *testing.T) {
			err := act()
			require.Error(t, err)
			assert.ErrorIs(t, err, wrap.ErrNoActions)
			assert.Contains(t, err.Error(), op)
		})
	}
	assert.Empty(t, engine.events)
}

func TestWithin_BindsActionsToElement(t *testing.T) {
	engine, root := mountFake(t)
	el, err := root.GetByTestID("item")
	require.NoError(t, err)

	scoped := root.Within(el)
	require.NotNil(t, scoped.Actions)

	require.NoError(t, scoped.Click())
	require.NoError(t, scoped.Focus())
	require.NoError(t, scoped.Blur())
	require.NoError(t, scoped.TypeText("hello"))

	assert.Equal(t, []string{
		"click item 1",
		"focus item 1",
		"blur item 1",
		"change item 1 hello",
	}, engine.events)
	assert.Same(t, el, scoped.BaseElement())
	assert.Nil(t, scoped.Container())
	assert.Empty(t, scoped.Keys())
}

func TestWithin_IndependentObjectsPerElement(t *testing.T) {
	engine, root := mountFake(t)
	els, err := root.GetAllByTestID("item")
	require.NoError(t, err)
	require.Len(t, els, 2)

	first := wrap.Within(engine, els[0])
	second := wrap.Within(engine, els[1])

	assert.NotSame(t, first, second)
	assert.NotSame(t, first.Actions, second.Actions)
	assert.Same(t, els[0], first.BaseElement())
	assert.Same(t, els[1], second.BaseElement())
}

func TestScope_String(t *testing.T) {
	assert.Equal(t, "root", wrap.RootScope.String())
	assert.Equal(t, "element", wrap.ElementScope.String())
	assert.Equal(t, "unknown", wrap.Scope(9).String())
}
