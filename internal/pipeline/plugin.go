package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/phobologic/minidoc/internal/cache"
	"github.com/phobologic/minidoc/internal/collect"
	"github.com/phobologic/minidoc/internal/logging"
	"github.com/phobologic/minidoc/internal/model"
	"github.com/phobologic/minidoc/internal/output"
	"github.com/phobologic/minidoc/internal/parse"
	"github.com/phobologic/minidoc/internal/render"
)

// Options configures a Plugin.
type Options struct {
	Title       string
	GroupByKind bool
	Kinds       []model.Kind
	JsdocOnly   bool

	// Output is the Markdown file written by GenerateBundle. Empty means the
	// document is only returned.
	Output string
	// HTML also writes Output with an .html extension.
	HTML bool
	// Embed replaces only the sentinel section of an existing Output.
	Embed bool

	// Cache, when set, is consulted by Build before parsing a file.
	Cache *cache.Cache
}

// Plugin implements the three build hooks. The per-file Transform may be
// called concurrently; GenerateBundle must only run after every Transform of
// the build has returned.
type Plugin struct {
	opts      Options
	collector *collect.Collector
	logger    *log.Logger

	mu      sync.Mutex
	buildID string
}

// NewPlugin returns a Plugin appending to collector. A nil logger uses the
// default logger.
func NewPlugin(opts Options, collector *collect.Collector, logger *log.Logger) *Plugin {
	if logger == nil {
		logger = logging.Default()
	}
	return &Plugin{opts: opts, collector: collector, logger: logger}
}

// NewExtractor returns an Extractor configured like the plugin.
func (p *Plugin) NewExtractor() *Extractor {
	return NewExtractor(p.opts.Kinds, p.opts.JsdocOnly)
}

// fingerprint identifies the settings that change extraction results.
func (p *Plugin) fingerprint() string {
	kinds := make([]string, len(p.opts.Kinds))
	for i, k := range p.opts.Kinds {
		kinds[i] = string(k)
	}
	return fmt.Sprintf("%s|%t", strings.Join(kinds, ","), p.opts.JsdocOnly)
}

// BuildID returns the identifier of the current build run.
func (p *Plugin) BuildID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buildID
}

// BuildStart begins a new build run and clears entries left by a previous one.
func (p *Plugin) BuildStart(_ context.Context) {
	p.collector.Reset()

	p.mu.Lock()
	p.buildID = uuid.NewString()
	id := p.buildID
	p.mu.Unlock()

	p.logger.Info("starting documentation collection", logging.FieldBuild, id)
}

// Transform documents one file. Files that fail to parse are logged and
// skipped; they never fail the build.
func (p *Plugin) Transform(ctx context.Context, id string, code []byte) {
	entries, err := p.NewExtractor().Extract(ctx, id, code)
	if err != nil {
		p.Skip(id, err)
		return
	}
	p.Commit(id, entries)
}

// Commit appends the entries extracted from file id.
func (p *Plugin) Commit(id string, entries []model.Entry) {
	p.collector.Append(entries...)
	if len(entries) > 0 {
		p.logger.Debug("documented file", logging.FieldPath, id, logging.FieldEntries, len(entries))
	}
}

// Skip records a file that contributes nothing to the build.
func (p *Plugin) Skip(id string, err error) {
	if errors.Is(err, parse.ErrUnsupported) {
		p.logger.Debug("skipped file", logging.FieldPath, id, logging.FieldReason, "unsupported")
		return
	}
	p.logger.Warn("failed to parse", logging.FieldPath, id, logging.FieldError, err)
}

// GenerateBundle renders every collected entry and writes the document.
// Every rendering is produced before any file is written, and the Markdown
// file is written last: when any step fails the error is returned and the
// Markdown output is left untouched.
func (p *Plugin) GenerateBundle(ctx context.Context) (string, error) {
	entries := p.collector.Entries()
	p.logger.Info("generating documentation", logging.FieldBuild, p.BuildID(), logging.FieldEntries, len(entries))

	md := render.Markdown(entries, render.Options{
		Title:       p.opts.Title,
		GroupByKind: p.opts.GroupByKind,
	})

	if p.opts.Output == "" {
		return md, nil
	}

	if p.opts.HTML {
		html, err := render.HTML(md)
		if err != nil {
			return "", fmt.Errorf("generating bundle: %w", err)
		}
		if err := output.Write(ctx, htmlPath(p.opts.Output), html, false); err != nil {
			return "", fmt.Errorf("generating bundle: %w", err)
		}
	}

	if err := output.Write(ctx, p.opts.Output, []byte(md), p.opts.Embed); err != nil {
		return "", fmt.Errorf("generating bundle: %w", err)
	}

	p.logger.Info("documentation generated", logging.FieldOutput, p.opts.Output)
	return md, nil
}

func htmlPath(markdownPath string) string {
	return strings.TrimSuffix(markdownPath, filepath.Ext(markdownPath)) + ".html"
}
