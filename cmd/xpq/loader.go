package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/samber/lo"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/benz9527/xpq/lib/infra"
	"github.com/benz9527/xpq/lib/queue"
	"github.com/benz9527/xpq/observability"
	"github.com/benz9527/xpq/xlog"
)

const (
	stdinPath         = "-"
	fileContextKey    = "file"
	commandContextKey = "cmd"
)

type pqueue = queue.BSTPriorityQueue[int64, string]

type pair struct {
	priority int64
	value    string
}

// queueLoader builds queues from text input holding one
// "<priority> <value>" pair per line.
type queueLoader struct {
	logger xlog.XLogger
	in     io.Reader
	opts   []queue.BSTPriorityQueueOption[int64, string]
}

func newQueueLoader(logger xlog.XLogger, cfg appConfig, stats *observability.AppStats) *queueLoader {
	opts := make([]queue.BSTPriorityQueueOption[int64, string], 0, 2)
	if cfg.desc {
		opts = append(opts, queue.WithBSTPriorityQueueDesc[int64, string]())
	}
	if stats != nil {
		opts = append(opts, queue.WithBSTPriorityQueueStats[int64, string](cfg.statsName))
	}
	return &queueLoader{
		logger: logger.Named("loader"),
		in:     cfg.in,
		opts:   opts,
	}
}

func (l *queueLoader) Load(ctx context.Context, path string) (*pqueue, error) {
	ctx = xlog.ContextWithField(ctx, fileContextKey, path)

	var r io.Reader
	if path == stdinPath || path == "" {
		r = l.in
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, infra.WrapErrorStackWithMessage(err, "open queue input")
		}
		defer func() {
			_ = f.Close()
		}()
		r = f
	}

	pairs, err := parsePairs(r)
	if err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "parse queue input "+path)
	}

	q := queue.NewBSTPriorityQueue[int64, string](
		append([]queue.BSTPriorityQueueOption[int64, string]{
			queue.WithBSTPriorityQueueCapacity[int64, string](len(pairs)),
		}, l.opts...)...,
	)
	for _, p := range pairs {
		q.Push(p.value, p.priority)
	}
	if err = queue.BSTViolationValidate(q); err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "invalid queue")
	}

	l.logger.InfoContext(ctx, "queue loaded",
		zap.Int64("size", q.Len()),
		zap.Int("height", q.Height()),
		zap.Int("priorities", len(lo.UniqBy(pairs, func(p pair) int64 { return p.priority }))),
	)
	return q, nil
}

// parsePairs reports every malformed line instead of stopping at the
// first one. Blank lines and lines starting with '#' are skipped.
func parsePairs(r io.Reader) ([]pair, error) {
	var (
		merr   error
		pairs  = make([]pair, 0, 64)
		lineNo = 0
	)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}
		key, value := line, ""
		if idx := strings.IndexFunc(line, unicode.IsSpace); idx >= 0 {
			key, value = line[:idx], line[idx:]
		}
		priority, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			merr = multierr.Append(merr, fmt.Errorf("line %d: invalid priority %q", lineNo, key))
			continue
		}
		value = strings.TrimSpace(value)
		if len(value) == 0 {
			merr = multierr.Append(merr, fmt.Errorf("line %d: missing value", lineNo))
			continue
		}
		pairs = append(pairs, pair{priority: priority, value: value})
	}
	if err := scanner.Err(); err != nil {
		merr = multierr.Append(merr, err)
	}
	if merr != nil {
		return nil, merr
	}
	return pairs, nil
}
