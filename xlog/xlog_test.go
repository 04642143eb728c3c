package xlog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xpq/lib/infra"
)

type testMemOutWriter struct {
	data []byte
}

func (w *testMemOutWriter) Write(p []byte) (n int, err error) {
	w.data = append(w.data, p...)
	return len(p), nil
}

func (w *testMemOutWriter) lines(t *testing.T) []map[string]any {
	res := make([]map[string]any, 0, 8)
	for _, line := range bytes.Split(bytes.TrimSpace(w.data), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		m := map[string]any{}
		require.NoError(t, json.Unmarshal(line, &m))
		res = append(res, m)
	}
	return res
}

func newTestMemLogger(t *testing.T, opts ...XLoggerOption) (XLogger, *testMemOutWriter) {
	w := &testMemOutWriter{data: make([]byte, 0, 4096)}
	registerOutWriter(testMemAsOut, zapcore.AddSync(w))
	opts = append([]XLoggerOption{
		WithXLoggerWriter(testMemAsOut),
		WithXLoggerEncoder(JSON),
	}, opts...)
	return NewXLogger(opts...), w
}

func TestLogLevelString(t *testing.T) {
	require.Equal(t, "DEBUG", LogLevelDebug.String())
	require.Equal(t, "INFO", LogLevelInfo.String())
	require.Equal(t, "WARN", LogLevelWarn.String())
	require.Equal(t, "ERROR", LogLevelError.String())
	require.Equal(t, zapcore.DebugLevel, LogLevelDebug.zapLevel())
	require.Equal(t, zapcore.InfoLevel, LogLevelInfo.zapLevel())
	require.Equal(t, zapcore.WarnLevel, LogLevelWarn.zapLevel())
	require.Equal(t, zapcore.ErrorLevel, LogLevelError.zapLevel())
	require.Equal(t, zapcore.DebugLevel, getLogLevelOrDefault(""))
	require.Equal(t, zapcore.WarnLevel, getLogLevelOrDefault("warn"))
}

func TestXLogger_Levels(t *testing.T) {
	logger, w := newTestMemLogger(t, WithXLoggerLevel(LogLevelInfo))
	require.Equal(t, "info", logger.Level())

	logger.Debug("hidden")
	logger.Info("pushed", zap.Int64("priority", 3))
	logger.Warn("degenerated", zap.Int("height", 100))
	logger.Error(errors.New("boom"), "failed")
	logger.Logf(zapcore.InfoLevel, "drained %d values", 14)

	logger.IncreaseLogLevel(zapcore.ErrorLevel)
	require.Equal(t, "error", logger.Level())
	logger.Info("hidden too")
	_ = logger.Sync()

	lines := w.lines(t)
	require.Len(t, lines, 4)
	require.Equal(t, "pushed", lines[0]["msg"])
	require.Equal(t, "INFO", lines[0]["lvl"])
	require.Equal(t, float64(3), lines[0]["priority"])
	require.Equal(t, "WARN", lines[1]["lvl"])
	require.Equal(t, "boom", lines[2]["error"])
	require.Equal(t, "drained 14 values", lines[3]["msg"])
	require.Contains(t, lines[0]["callAt"], "xlog_test.go")
}

func TestXLogger_ErrorStack(t *testing.T) {
	logger, w := newTestMemLogger(t)

	merr := multierr.Combine(errors.New("line 1: bad priority"), errors.New("line 3: missing value"))
	logger.ErrorStack(infra.WrapErrorStackWithMessage(merr, "load failed"), "cannot load queue")
	logger.ErrorStack(errors.New("plain"), "plain error")
	logger.ErrorStack(nil, "nil error")

	lines := w.lines(t)
	require.Len(t, lines, 3)
	require.Equal(t, "load failed: line 1: bad priority; line 3: missing value", lines[0]["error"])
	require.Len(t, lines[0]["errors"], 2)
	require.NotEmpty(t, lines[0]["errorStack"])
	require.Equal(t, "plain", lines[1]["error"])
	require.NotContains(t, lines[2], "error")
}

func TestXLogger_ContextFields(t *testing.T) {
	logger, w := newTestMemLogger(t,
		WithXLoggerContextFieldExtract("queue"),
		WithXLoggerContextFieldExtract("file", "input"),
		WithXLoggerContextFieldExtract("secret", ContextKeyMapToOmitempty),
		WithXLoggerContextFieldExtract(""),
	)

	ctx := ContextWithField(context.Background(), "queue", "render")
	ctx = ContextWithField(ctx, "secret", "xyz")
	logger.InfoContext(ctx, "loaded")
	logger.DebugContext(context.Background(), "nothing set")
	logger.ErrorContext(ctx, infra.NewErrorStack("bad line"), "failed")

	lines := w.lines(t)
	require.Len(t, lines, 3)
	require.Equal(t, "render", lines[0]["queue"])
	require.Equal(t, "nil", lines[0]["input"])
	require.NotContains(t, lines[0], "secret")
	require.Equal(t, "nil", lines[1]["queue"])
	require.Equal(t, "bad line", lines[2]["error"])
}

func TestXLogger_Named(t *testing.T) {
	logger, w := newTestMemLogger(t)
	logger.Named("loader").Info("named")
	lines := w.lines(t)
	require.Len(t, lines, 1)
	require.Equal(t, "loader", lines[0]["component"])
}

func TestXLoggerOptions(t *testing.T) {
	cfg := &loggerCfg{}
	require.Error(t, WithXLoggerWriter(_writerMax)(cfg))
	require.Error(t, WithXLoggerEncoder(_encMax)(cfg))
	require.Error(t, WithXLoggerLevelText("verbose")(cfg))
	require.Nil(t, cfg.level)
	require.NoError(t, WithXLoggerLevelText("")(cfg))
	require.Nil(t, cfg.level)
	require.NoError(t, WithXLoggerLevelText(" warn ")(cfg))
	require.Equal(t, zapcore.WarnLevel, *cfg.level)
	require.NoError(t, WithXLoggerLevelEncoder(nil)(cfg))
	require.NotNil(t, cfg.lvlEncoder)
	require.NoError(t, WithXLoggerTimeEncoder(nil)(cfg))
	require.NotNil(t, cfg.tsEncoder)

	require.Panics(t, func() {
		NewXLogger(WithXLoggerEncoder(_encMax))
	})
	l, err := TryNewXLogger(WithXLoggerLevelText("trace"))
	require.Error(t, err)
	require.Nil(t, l)
	l, err = TryNewXLogger(nil, WithXLoggerWriter(StdErr), WithXLoggerEncoder(PlainText))
	require.NoError(t, err)
	require.NotNil(t, l)
}

func TestConsoleCore(t *testing.T) {
	lvlEnabler := zap.NewAtomicLevelAt(LogLevelDebug.zapLevel())
	cc := newConsoleCore(lvlEnabler, JSON, _writerMax, zapcore.CapitalLevelEncoder, zapcore.ISO8601TimeEncoder)
	require.Nil(t, cc)

	cc = newConsoleCore(lvlEnabler, PlainText, StdErr, zapcore.CapitalLevelEncoder, zapcore.ISO8601TimeEncoder)
	require.NotNil(t, cc)
	require.NotNil(t, cc.writeSyncer())
	require.True(t, cc.Enabled(zapcore.DebugLevel))
	lvlEnabler.SetLevel(zapcore.ErrorLevel)
	require.False(t, cc.Enabled(zapcore.WarnLevel))
	require.True(t, cc.Enabled(zapcore.ErrorLevel))
}
