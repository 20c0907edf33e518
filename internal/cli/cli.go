package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cardtable/pkg/buildinfo"
	"github.com/matzehuels/cardtable/pkg/cache"
	"github.com/matzehuels/cardtable/pkg/observability"
	"github.com/matzehuels/cardtable/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "cardtable"

	// defaultConfigFile is picked up from the working directory when
	// --config is not given.
	defaultConfigFile = "cardtable.toml"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "cardtable",
		Short: "Cardtable deals jittered card layouts and animates them",
		Long: `Cardtable scatters cards over a deal area so that the area stays fully covered
while every card looks casually thrown, then animates the deal from a stacked
deck and gathers the cards into a responsive grid.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			hooks := observability.NewLogHooks(c.Logger)
			observability.SetPipelineHooks(hooks)
			observability.SetCacheHooks(hooks)
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.dealCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.playCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, opts pipeline.CacheOptions, noCache bool) *pipeline.Runner {
	return pipeline.NewRunner(c.newCache(ctx, opts, noCache), opts.Keyer(), c.Logger)
}

// newCache opens the configured backend. A backend that cannot be opened
// disables caching for the run instead of failing it.
func (c *CLI) newCache(ctx context.Context, opts pipeline.CacheOptions, noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	switch opts.Backend {
	case pipeline.CacheNone:
		return cache.NewNullCache()
	case pipeline.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, opts.Redis)
		if err != nil {
			c.Logger.Warn("redis cache unavailable, caching disabled", "err", err)
			return cache.NewNullCache()
		}
		return rc
	}

	dir := opts.Dir
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			return cache.NewNullCache()
		}
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("file cache unavailable, caching disabled", "dir", dir, "err", err)
		return cache.NewNullCache()
	}
	return fc
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/cardtable/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// loadOptions reads the options file at path. With an empty path the
// default file in the working directory is used when present; otherwise
// the zero options are returned and pipeline defaults apply.
func loadOptions(path string) (pipeline.Options, error) {
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err != nil {
			return pipeline.Options{}, nil
		}
		path = defaultConfigFile
	}
	return pipeline.LoadOptions(path)
}
