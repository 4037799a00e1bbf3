package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/phobologic/minidoc/internal/cache"
	"github.com/phobologic/minidoc/internal/discover"
	"github.com/phobologic/minidoc/internal/logging"
	"github.com/phobologic/minidoc/internal/model"
)

// Result summarizes one build run.
type Result struct {
	BuildID  string
	Files    int
	Skipped  int
	Entries  int
	Cached   int
	Markdown string
	Duration time.Duration
}

type fileResult struct {
	entries []model.Entry
	err     error
	key     string
	cached  bool
}

// Build runs one complete build over files (relative to root): BuildStart,
// concurrent per-file extraction, a join, then GenerateBundle. Entries are
// committed in the order of files regardless of which worker finished first,
// so the document is identical across runs over the same input.
func Build(ctx context.Context, p *Plugin, root string, files []discover.FileEntry, workers int) (*Result, error) {
	start := time.Now()
	p.BuildStart(ctx)

	results, err := extractAll(ctx, p, root, files, workers)
	if err != nil {
		return nil, err
	}

	res := &Result{BuildID: p.BuildID(), Files: len(files)}
	keep := make(map[string]struct{})
	for i, r := range results {
		if r.err != nil {
			p.Skip(files[i].Path, r.err)
			res.Skipped++
			continue
		}
		if r.cached {
			res.Cached++
		}
		if r.key != "" {
			keep[r.key] = struct{}{}
		}
		p.Commit(files[i].Path, r.entries)
	}
	if c := p.opts.Cache; c != nil {
		if n, err := c.Prune(keep); err != nil {
			p.logger.Warn("failed to prune cache", logging.FieldError, err)
		} else if n > 0 {
			p.logger.Debug("pruned cache", logging.FieldEntries, n)
		}
	}

	md, err := p.GenerateBundle(ctx)
	if err != nil {
		return nil, err
	}
	res.Markdown = md
	res.Entries = p.collector.Len()
	res.Duration = time.Since(start)
	return res, nil
}

func extractAll(ctx context.Context, p *Plugin, root string, files []discover.FileEntry, workers int) ([]fileResult, error) {
	results := make([]fileResult, len(files))
	if len(files) == 0 {
		return results, nil
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(files) {
		workers = len(files)
	}

	g, gctx := errgroup.WithContext(ctx)
	work := make(chan int)

	g.Go(func() error {
		defer close(work)
		for i := range files {
			select {
			case work <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for range workers {
		g.Go(func() error {
			// Each goroutine gets its own parsers
			x := p.NewExtractor()
			for idx := range work {
				f := files[idx]
				source, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(f.Path)))
				if err != nil {
					results[idx] = fileResult{err: fmt.Errorf("reading %s: %w", f.Path, err)}
					continue
				}
				results[idx] = extractCached(gctx, p, x, f.Path, source)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("extracting: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("extracting: %w", err)
	}
	return results, nil
}

func extractCached(ctx context.Context, p *Plugin, x *Extractor, id string, source []byte) fileResult {
	c := p.opts.Cache
	if c == nil {
		entries, err := x.Extract(ctx, id, source)
		return fileResult{entries: entries, err: err}
	}

	key := cache.Key(id, p.fingerprint(), source)
	if entries, ok := c.Get(key); ok {
		return fileResult{entries: entries, key: key, cached: true}
	}

	entries, err := x.Extract(ctx, id, source)
	if err != nil {
		return fileResult{err: err}
	}
	if err := c.Put(key, entries); err != nil {
		p.logger.Warn("failed to cache entries", logging.FieldPath, id, logging.FieldError, err)
	}
	return fileResult{entries: entries, key: key}
}
