// Package clean normalizes every document in a corpus directory with a
// bounded pool of workers.
package clean

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/fwojciec/docprimer"
	"github.com/fwojciec/docprimer/fs"
	"golang.org/x/sync/errgroup"
)

// jsonExt marks corpus files converted from JSON documents.
const jsonExt = ".json" + fs.Ext

// Cleaner normalizes corpus files in place.
type Cleaner struct {
	Normalizer docprimer.Normalizer

	// Workers is the pool size. Values below 1 use docprimer.DefaultWorkers().
	Workers int

	Logger *slog.Logger
}

// CleanDirectory normalizes every corpus file under dir and returns one
// result per file in completion order. A failure on one file is recorded
// in its result and does not stop the batch. Only a failure to list dir
// is returned as an error.
func (c *Cleaner) CleanDirectory(ctx context.Context, dir string) ([]docprimer.NormalizationResult, error) {
	files, err := fs.ListDocuments(dir, fs.Ext)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	workers := c.Workers
	if workers < 1 {
		workers = docprimer.DefaultWorkers()
	}
	logger := c.logger()
	logger.Info("cleaning corpus", "dir", dir, "files", len(files), "workers", workers)

	var (
		mu      sync.Mutex
		results = make([]docprimer.NormalizationResult, 0, len(files))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, path := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			result := fs.NormalizeFile(c.Normalizer, path)
			c.log(logger, result)

			mu.Lock()
			results = append(results, result)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

func (c *Cleaner) log(logger *slog.Logger, result docprimer.NormalizationResult) {
	switch {
	case result.Err != nil:
		logger.Error("clean failed", "path", result.Path, "error", result.Err)
	case strings.HasSuffix(result.Path, jsonExt):
		logger.Info("cleaned json document", "path", result.Path, "changed", len(result.DiffLines))
	case len(result.DiffLines) == 0:
		logger.Debug("cleaned", "path", result.Path)
	default:
		logger.Info("cleaned", "path", result.Path, "changed", len(result.DiffLines))
		for _, d := range result.DiffLines {
			logger.Debug("changed line", "path", result.Path, "line", d.String())
		}
	}
}

func (c *Cleaner) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.DiscardHandler)
}
