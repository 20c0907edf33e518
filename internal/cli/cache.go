package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardtable/pkg/cache"
	"github.com/matzehuels/cardtable/pkg/pipeline"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout and artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached layout and artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := fileCacheDir(path)
			if err != nil {
				return err
			}
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Cache is empty")
				return nil
			}

			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			count, err := fc.Clear()
			if err != nil {
				return err
			}
			printSuccess("Cleared %d cached entries", count)
			printDetail("Directory: %s", dir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "config", "c", "", "options file selecting the cache directory")
	return cmd
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := fileCacheDir(path)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "config", "c", "", "options file selecting the cache directory")
	return cmd
}

// fileCacheDir returns the file cache directory the options at configPath
// select. Other backends are reported since they have no directory.
func fileCacheDir(configPath string) (string, error) {
	opts, err := loadOptions(configPath)
	if err != nil {
		return "", err
	}
	switch opts.Cache.Backend {
	case pipeline.CacheRedis, pipeline.CacheNone:
		printWarning("Options select the %s cache backend; using the file cache directory", opts.Cache.Backend)
	}
	if opts.Cache.Dir != "" {
		return opts.Cache.Dir, nil
	}
	dir, err := cacheDir()
	if err != nil {
		return "", fmt.Errorf("get cache dir: %w", err)
	}
	return dir, nil
}
