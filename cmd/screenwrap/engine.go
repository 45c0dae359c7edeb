package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/tomyan/screenwrap/browser"
	"github.com/tomyan/screenwrap/dom"
	"github.com/tomyan/screenwrap/wrap"
)

// openEngine returns the engine selected by cfg and a func releasing it.
func openEngine(cfg *Config) (wrap.Engine, func(), error) {
	switch cfg.Engine {
	case EngineChrome:
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
		defer cancel()

		e, err := browser.Connect(ctx, cfg.Host, cfg.Port,
			browser.WithLogger(cfg.log),
			browser.WithTimeout(cfg.Timeout),
			browser.WithTestIDAttribute(cfg.TestIDAttr),
			browser.WithDebugOutput(cfg.Stdout),
		)
		if err != nil {
			return nil, nil, &exitError{code: ExitConnFailed, err: err}
		}
		return e, func() {
			if err := e.Close(); err != nil {
				cfg.log.Warn("closing browser engine", zap.Error(err))
			}
		}, nil
	default:
		e := dom.New(
			dom.WithLogger(cfg.log),
			dom.WithTestIDAttribute(cfg.TestIDAttr),
			dom.WithDebugOutput(cfg.Stdout),
		)
		return e, func() {}, nil
	}
}

// mountFile reads an HTML fixture and mounts it with engine.
func mountFile(engine wrap.Engine, path string) (*wrap.Object, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	return wrap.Mount(engine, string(data))
}

// withObject opens the configured engine, mounts the fixture at path and
// runs fn against the root object.
func withObject(cfg *Config, path string, fn func(engine wrap.Engine, obj *wrap.Object) (interface{}, error)) (interface{}, error) {
	engine, release, err := openEngine(cfg)
	if err != nil {
		return nil, err
	}
	defer release()

	obj, err := mountFile(engine, path)
	if err != nil {
		return nil, err
	}
	defer obj.Unmount()

	cfg.log.Debug("mounted", zap.String("file", path), zap.String("engine", cfg.Engine))
	return fn(engine, obj)
}
