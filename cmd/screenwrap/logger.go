package main

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger builds the CLI logger on cfg.Stderr and installs it as the
// global logger. The returned func restores the previous globals.
func newLogger(cfg *Config) (*zap.Logger, func()) {
	encCfg := zap.NewProductionEncoderConfig()
	encoder := zapcore.NewJSONEncoder(encCfg)
	level := zapcore.WarnLevel
	if cfg.Verbose {
		encCfg = zap.NewDevelopmentEncoderConfig()
		encoder = zapcore.NewConsoleEncoder(encCfg)
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(cfg.Stderr)), level)
	log := zap.New(core, zap.ErrorOutput(zapcore.AddSync(cfg.Stderr))).Named("screenwrap")
	restore := zap.ReplaceGlobals(log)
	return log, restore
}
