package wrap

// Mount renders tree with engine and composes the root object with wrappers.
// Render errors are returned unmodified.
func Mount(engine Engine, tree any, wrappers ...Func) (*Object, error) {
	screen, err := engine.Render(tree)
	if err != nil {
		return nil, err
	}
	return Compose(Root(engine, screen), wrappers...), nil
}

// MountAs is Mount with the merged props decoded into T.
func MountAs[T any](engine Engine, tree any, wrappers ...Func) (*Wrapped[T], error) {
	screen, err := engine.Render(tree)
	if err != nil {
		return nil, err
	}
	return ComposeAs[T](Root(engine, screen), wrappers...)
}
