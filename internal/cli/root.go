// Package cli provides the Cobra command structure for minidoc.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/phobologic/minidoc/internal/cache"
	"github.com/phobologic/minidoc/internal/collect"
	"github.com/phobologic/minidoc/internal/config"
	"github.com/phobologic/minidoc/internal/discover"
	"github.com/phobologic/minidoc/internal/logging"
	"github.com/phobologic/minidoc/internal/pipeline"
	"github.com/phobologic/minidoc/internal/watch"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// buildFlags holds the flags of the root build command.
type buildFlags struct {
	configPath string
	debug      bool
	title      string
	output     string
	noGroup    bool
	watch      bool
	stdout     bool
	html       bool
	cache      string
}

// NewRootCommand creates the root minidoc command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	flags := &buildFlags{}

	rootCmd := &cobra.Command{
		Use:   "minidoc [root]",
		Short: "Generate Markdown API docs from JSDoc comments",
		Long: `minidoc parses the JavaScript and TypeScript sources under root (default:
the current directory), attaches each doc comment to the nearest following
class, method or property, and writes a single Markdown document.

Settings are read from .minidoc.yaml in root, or from --config. Flags
override the file.`,
		Args: cobra.MaximumNArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := "info"
			if flags.debug {
				level = "debug"
			}
			logger := logging.New(cmd.ErrOrStderr(), level)
			cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}
			return runBuild(cmd, root, flags)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to config file")

	rootCmd.Flags().StringVar(&flags.title, "title", "", "document title")
	rootCmd.Flags().StringVarP(&flags.output, "output", "o", "", "output Markdown file")
	rootCmd.Flags().BoolVar(&flags.noGroup, "no-group", false, "list entries in source order instead of by kind")
	rootCmd.Flags().BoolVar(&flags.watch, "watch", false, "rebuild when source files change")
	rootCmd.Flags().BoolVar(&flags.stdout, "stdout", false, "print the document instead of writing a file")
	rootCmd.Flags().BoolVar(&flags.html, "html", false, "also write an HTML rendering")
	rootCmd.Flags().StringVar(&flags.cache, "cache", "", "cache file for extraction results")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	return rootCmd
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command, root string, flags *buildFlags) (*config.Config, error) {
	path, explicit := flags.configPath, true
	if path == "" {
		path, explicit = filepath.Join(root, config.FileName), false
	}

	cfg, err := config.Load(path, explicit)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("title") {
		cfg.Title = flags.title
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = flags.output
	}
	if flags.noGroup {
		cfg.GroupByKind = false
	}
	if flags.html {
		cfg.HTML = true
	}
	if cmd.Flags().Changed("cache") {
		cfg.Cache = flags.cache
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runBuild(cmd *cobra.Command, root string, flags *buildFlags) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	root, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("root path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: not a directory", root)
	}

	cfg, err := loadConfig(cmd, root, flags)
	if err != nil {
		return err
	}
	if flags.stdout && flags.watch {
		return fmt.Errorf("--stdout cannot be combined with --watch")
	}

	opts := pipeline.Options{
		Title:       cfg.Title,
		GroupByKind: cfg.GroupByKind,
		Kinds:       cfg.Kinds,
		JsdocOnly:   cfg.JsdocOnly,
		HTML:        cfg.HTML,
		Embed:       cfg.Embed,
	}
	if !flags.stdout {
		opts.Output = cfg.OutputPath(root)
	}
	if path := cfg.CachePath(root); path != "" {
		c, err := cache.Open(path)
		if err != nil {
			return err
		}
		defer func() { _ = c.Close() }()
		opts.Cache = c
	}
	plugin := pipeline.NewPlugin(opts, collect.New(), logger)

	res, err := buildOnce(ctx, plugin, root, cfg)
	if err != nil {
		return err
	}
	if flags.stdout {
		_, _ = fmt.Fprint(cmd.OutOrStdout(), res.Markdown)
	}
	if !flags.watch {
		return nil
	}
	return runWatch(ctx, plugin, root, cfg)
}

// buildOnce discovers the project files and runs one build.
func buildOnce(ctx context.Context, plugin *pipeline.Plugin, root string, cfg *config.Config) (*pipeline.Result, error) {
	logger := logging.FromContext(ctx)

	files, err := discover.Files(root, discover.Options{
		Include:   cfg.IncludeRe(),
		Exclude:   cfg.ExcludeRe(),
		SkipTests: cfg.SkipTests,
	})
	if err != nil {
		return nil, fmt.Errorf("discovering files: %w", err)
	}
	files = discover.FilterBySize(root, files, cfg.MaxFileSize, logger)

	res, err := pipeline.Build(ctx, plugin, root, files, cfg.Workers)
	if err != nil {
		return nil, err
	}
	logger.Info("build complete",
		logging.FieldFiles, res.Files,
		logging.FieldSkipped, res.Skipped,
		logging.FieldEntries, res.Entries,
		logging.FieldCached, res.Cached,
		logging.FieldDuration, res.Duration.Round(time.Millisecond),
	)
	return res, nil
}

func runWatch(ctx context.Context, plugin *pipeline.Plugin, root string, cfg *config.Config) error {
	logger := logging.FromContext(ctx)

	w, err := watch.New(root, func(ctx context.Context, changed []string) {
		logger.Info("change detected", logging.FieldFiles, len(changed))
		if _, err := buildOnce(ctx, plugin, root, cfg); err != nil {
			logger.Error("rebuild failed", logging.FieldError, err)
		}
	}, watch.WithOnError(func(err error) {
		logger.Warn("watcher error", logging.FieldError, err)
	}))
	if err != nil {
		return err
	}

	logger.Info("watching for changes", logging.FieldRoot, root)
	return w.Run(ctx)
}
