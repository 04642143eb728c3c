package xlog

import (
	"go.uber.org/zap/zapcore"
)

var consoleCoreEncoderCfg = zapcore.EncoderConfig{
	MessageKey:    "msg",
	LevelKey:      "lvl",
	TimeKey:       "ts",
	CallerKey:     "callAt",
	EncodeCaller:  zapcore.ShortCallerEncoder,
	FunctionKey:   coreKeyIgnored,
	NameKey:       "component",
	EncodeName:    zapcore.FullNameEncoder,
	StacktraceKey: coreKeyIgnored,
}

type consoleCore struct {
	zapcore.Core
	ws zapcore.WriteSyncer
}

func (cc *consoleCore) writeSyncer() zapcore.WriteSyncer { return cc.ws }

func newConsoleCore(
	lvlEnabler zapcore.LevelEnabler,
	encoder logEncoderType,
	writer logOutWriterType,
	lvlEnc zapcore.LevelEncoder,
	tsEnc zapcore.TimeEncoder,
) *consoleCore {
	if writer >= _writerMax {
		return nil
	}
	config := consoleCoreEncoderCfg
	config.EncodeLevel = lvlEnc
	config.EncodeTime = tsEnc
	ws := getOutWriterByType(writer)
	return &consoleCore{
		Core: zapcore.NewCore(getEncoderByType(encoder)(config), ws, lvlEnabler),
		ws:   ws,
	}
}
