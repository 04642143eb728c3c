package main

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xpq/lib/infra"
	"github.com/benz9527/xpq/xlog"
)

type rootCommandeer struct {
	cmd        *cobra.Command
	logger     xlog.XLogger
	logLevel   string
	logEncoder string
	metrics    bool
	desc       bool
}

func newRootCommandeer() *rootCommandeer {
	commandeer := &rootCommandeer{}

	cmd := &cobra.Command{
		Use:           "xpq [command]",
		Short:         "Load priority/value pairs into a BST priority queue and inspect it",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultLogLevel := os.Getenv("XLOG_LVL")
	if defaultLogLevel == "" {
		defaultLogLevel = "info"
	}

	cmd.PersistentFlags().StringVarP(&commandeer.logLevel, "log-level", "l", defaultLogLevel, "One of debug / info / warn / error")
	cmd.PersistentFlags().StringVarP(&commandeer.logEncoder, "log-encoder", "", "text", "Log encoder, json or text")
	cmd.PersistentFlags().BoolVarP(&commandeer.metrics, "metrics", "m", false, "Write the queue metrics to stdout on exit")
	cmd.PersistentFlags().BoolVarP(&commandeer.desc, "desc", "", false, "Pop the greatest priority first")

	cmd.AddCommand(
		newRenderCommandeer(commandeer).cmd,
		newWalkCommandeer(commandeer).cmd,
		newDrainCommandeer(commandeer).cmd,
		newDiffCommandeer(commandeer).cmd,
	)

	commandeer.cmd = cmd

	return commandeer
}

// Execute uses os.Args to execute the command
func (rc *rootCommandeer) Execute() error {
	return rc.cmd.Execute()
}

func (rc *rootCommandeer) initialize() error {
	var encoder xlog.XLoggerOption
	switch strings.ToLower(rc.logEncoder) {
	case "json":
		encoder = xlog.WithXLoggerEncoder(xlog.JSON)
	case "text", "":
		encoder = xlog.WithXLoggerEncoder(xlog.PlainText)
	default:
		return infra.NewErrorStack("invalid log encoder " + rc.logEncoder + ", must be json or text")
	}

	logger, err := xlog.TryNewXLogger(
		xlog.WithXLoggerWriter(xlog.StdErr),
		encoder,
		xlog.WithXLoggerLevelText(rc.logLevel),
		xlog.WithXLoggerLevelEncoder(zapcore.CapitalLevelEncoder),
		xlog.WithXLoggerContextFieldExtract(fileContextKey, "file"),
		xlog.WithXLoggerContextFieldExtract(commandContextKey, "cmd"),
	)
	if err != nil {
		return infra.WrapErrorStackWithMessage(err, "failed to create logger")
	}
	rc.logger = logger
	return nil
}

// run initializes the root and executes fn inside the queue application.
func (rc *rootCommandeer) run(cmd *cobra.Command, fn func(ctx context.Context, loader *queueLoader) error) error {
	if err := rc.initialize(); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = xlog.ContextWithField(ctx, commandContextKey, cmd.Name())

	err := runQueueApp(ctx, rc.logger, appConfig{
		out:       cmd.OutOrStdout(),
		in:        cmd.InOrStdin(),
		metrics:   rc.metrics,
		desc:      rc.desc,
		statsName: cmd.Name(),
	}, fn)
	if err != nil {
		rc.logger.ErrorContext(ctx, err, "command failed")
	}
	// Syncing a terminal stderr returns EINVAL on linux.
	_ = rc.logger.Sync()
	return err
}
