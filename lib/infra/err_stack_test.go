package infra

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
)

func TestFrameMarshalText(t *testing.T) {
	_bytes, err := Frame(0).MarshalText()
	require.NoError(t, err)
	require.Equal(t, "unknownFrame", string(_bytes))

	es := NewErrorStack("boom").(ErrorStack)
	require.NotEmpty(t, es.Frames())
	_bytes, err = es.Frames()[0].MarshalText()
	require.NoError(t, err)
	require.True(t, strings.Contains(string(_bytes), "TestFrameMarshalText"))
	require.True(t, strings.HasPrefix(es.Frames()[0].String(), "err_stack_test.go:"))
}

func TestWrapErrorStack(t *testing.T) {
	require.NoError(t, WrapErrorStack(nil))
	require.NoError(t, WrapErrorStackWithMessage(nil, "ignored"))

	sentinel := errors.New("sentinel")
	err := WrapErrorStackWithMessage(sentinel, "load failed")
	require.ErrorIs(t, err, sentinel)
	require.Equal(t, "load failed: sentinel", err.Error())

	wrapped := WrapErrorStack(err)
	require.Same(t, err, wrapped)

	err = WrapErrorStack(sentinel)
	require.Equal(t, "sentinel", err.Error())
	var es ErrorStack
	require.True(t, errors.As(err, &es))
}

func TestErrorStackMarshalLogObject(t *testing.T) {
	merr := multierr.Combine(errors.New("line 1"), errors.New("line 2"))
	err := WrapErrorStackWithMessage(merr, "parse failed")

	enc := zapcore.NewMapObjectEncoder()
	require.NoError(t, err.(ErrorStack).MarshalLogObject(enc))
	require.Equal(t, "parse failed: line 1; line 2", enc.Fields["error"])
	require.Len(t, enc.Fields["errors"], 2)
	require.NotEmpty(t, enc.Fields["errorStack"])
}
