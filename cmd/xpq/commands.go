package main

import (
	"context"
	"fmt"
	"io"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/benz9527/xpq/lib/infra"
)

type renderCommandeer struct {
	cmd            *cobra.Command
	rootCommandeer *rootCommandeer
	path           string
}

func newRenderCommandeer(rootCommandeer *rootCommandeer) *renderCommandeer {
	commandeer := &renderCommandeer{
		rootCommandeer: rootCommandeer,
	}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the queue as \"<priority> value: <value>\" lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootCommandeer.run(cmd, func(ctx context.Context, loader *queueLoader) error {
				q, err := loader.Load(ctx, commandeer.path)
				if err != nil {
					return err
				}
				_, err = io.WriteString(cmd.OutOrStdout(), q.String())
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&commandeer.path, "file", "f", stdinPath, "Input file, - reads stdin")

	commandeer.cmd = cmd

	return commandeer
}

type walkCommandeer struct {
	cmd            *cobra.Command
	rootCommandeer *rootCommandeer
	path           string
}

func newWalkCommandeer(rootCommandeer *rootCommandeer) *walkCommandeer {
	commandeer := &walkCommandeer{
		rootCommandeer: rootCommandeer,
	}

	cmd := &cobra.Command{
		Use:   "walk",
		Short: "Walk the queue in priority order without removing anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootCommandeer.run(cmd, func(ctx context.Context, loader *queueLoader) error {
				q, err := loader.Load(ctx, commandeer.path)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				visited := int64(0)
				c := q.Begin()
				for val, priority, ok := c.Next(); ok; val, priority, ok = c.Next() {
					if _, err = fmt.Fprintf(out, "%d\t%s\n", priority, val); err != nil {
						return err
					}
					visited++
				}
				loader.logger.DebugContext(ctx, "queue walked", zap.Int64("visited", visited))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&commandeer.path, "file", "f", stdinPath, "Input file, - reads stdin")

	commandeer.cmd = cmd

	return commandeer
}

type drainCommandeer struct {
	cmd            *cobra.Command
	rootCommandeer *rootCommandeer
	path           string
	limit          int64
}

func newDrainCommandeer(rootCommandeer *rootCommandeer) *drainCommandeer {
	commandeer := &drainCommandeer{
		rootCommandeer: rootCommandeer,
	}

	cmd := &cobra.Command{
		Use:   "drain",
		Short: "Pop values until the queue is empty or the limit is reached",
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootCommandeer.run(cmd, func(ctx context.Context, loader *queueLoader) error {
				q, err := loader.Load(ctx, commandeer.path)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				popped := int64(0)
				for priority, val := range q.Drain() {
					if _, err = fmt.Fprintf(out, "%d\t%s\n", priority, val); err != nil {
						return err
					}
					popped++
					if commandeer.limit > 0 && popped >= commandeer.limit {
						break
					}
				}
				loader.logger.DebugContext(ctx, "queue drained",
					zap.Int64("popped", popped),
					zap.Int64("remaining", q.Len()),
				)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&commandeer.path, "file", "f", stdinPath, "Input file, - reads stdin")
	cmd.Flags().Int64VarP(&commandeer.limit, "limit", "n", 0, "Stop after popping n values, 0 drains everything")

	commandeer.cmd = cmd

	return commandeer
}

type diffCommandeer struct {
	cmd            *cobra.Command
	rootCommandeer *rootCommandeer
	paths          []string
}

func newDiffCommandeer(rootCommandeer *rootCommandeer) *diffCommandeer {
	commandeer := &diffCommandeer{
		rootCommandeer: rootCommandeer,
	}

	cmd := &cobra.Command{
		Use:   "diff -f A -f B",
		Short: "Report whether two queues are structurally equal",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(commandeer.paths) != 2 {
				return infra.NewErrorStack("diff requires exactly two files")
			}
			return rootCommandeer.run(cmd, func(ctx context.Context, loader *queueLoader) error {
				queues := make([]*pqueue, 0, len(commandeer.paths))
				for _, path := range commandeer.paths {
					q, err := loader.Load(ctx, path)
					if err != nil {
						return err
					}
					queues = append(queues, q)
				}
				sizes := lo.Map(queues, func(q *pqueue, _ int) int64 { return q.Len() })
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "equal: %t\nsizes: %d %d\n",
					queues[0].Equal(queues[1]), sizes[0], sizes[1],
				)
				return err
			})
		},
	}

	cmd.Flags().StringSliceVarP(&commandeer.paths, "file", "f", nil, "Input files, exactly two")

	commandeer.cmd = cmd

	return commandeer
}
