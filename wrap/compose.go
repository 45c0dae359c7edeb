package wrap

import (
	"fmt"
	"maps"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

// Props maps custom prop names to values. A value may itself be a Props,
// which acts as a namespace.
type Props map[string]any

// Func builds custom props for an object. It is called once per composition
// and must not share mutable state between calls.
type Func func(o *Object) Props

// Wrapped is a composed object whose custom props have been decoded into T.
type Wrapped[T any] struct {
	*Object

	Custom T
}

// Merge reduces parts left to right into a new mapping. A later part's
// top-level key replaces an earlier one, namespaces included.
func Merge(parts ...Props) Props {
	merged := Props{}
	for _, p := range parts {
		maps.Copy(merged, p)
	}
	return merged
}

// Compose calls each wrapper with base, in order, and returns a new object
// carrying base's capabilities plus the merged props. Wrappers never see each
// other's props.
func Compose(base *Object, wrappers ...Func) *Object {
	parts := make([]Props, 0, len(wrappers))
	for _, w := range wrappers {
		parts = append(parts, w(base))
	}

	composed := *base
	composed.props = Merge(base.props, Merge(parts...))

	zap.L().Named("wrap").Debug("composed",
		zap.Stringer("scope", base.scope),
		zap.Int("wrappers", len(wrappers)),
		zap.Int("props", len(composed.props)),
	)
	return &composed
}

// ComposeAs composes base with wrappers and decodes the merged props into T.
// Every field of T must be supplied by some wrapper.
func ComposeAs[T any](base *Object, wrappers ...Func) (*Wrapped[T], error) {
	composed := Compose(base, wrappers...)

	var custom T
	if err := decodeProps(composed.props, &custom); err != nil {
		return nil, err
	}
	return &Wrapped[T]{Object: composed, Custom: custom}, nil
}

// For returns a reusable composer applying wrappers to any base object.
func For[T any](wrappers ...Func) func(base *Object) (*Wrapped[T], error) {
	return func(base *Object) (*Wrapped[T], error) {
		return ComposeAs[T](base, wrappers...)
	}
}

func decodeProps(props Props, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     out,
		ErrorUnset: true,
	})
	if err != nil {
		return fmt.Errorf("creating props decoder: %w", err)
	}
	if err := dec.Decode(map[string]any(props)); err != nil {
		return fmt.Errorf("decoding props: %w", err)
	}
	return nil
}
