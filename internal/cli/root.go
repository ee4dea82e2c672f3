// Package cli wires the rseek command line to the search core.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/kk-code-lab/rseek/internal/config"
	fsutil "github.com/kk-code-lab/rseek/internal/fs"
	"github.com/kk-code-lab/rseek/internal/logger"
	"github.com/kk-code-lab/rseek/internal/output"
	"github.com/kk-code-lab/rseek/internal/search"
)

// Version is injected at build time via -ldflags.
var Version = "dev"

// logSuffix names the diagnostics file written next to --write-file.
const logSuffix = ".log"

type options struct {
	readDir      string
	writeFile    string
	searchString string
	depth        int
	format       string
	skipHidden   bool
	logLevel     string
	color        string
	configPath   string
}

// newFilesystem is swapped in tests.
var newFilesystem = func() fsutil.Filesystem {
	return fsutil.NewOSFS()
}

// NewRootCommand creates the rseek command.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "rseek -r <dir> -s <string>",
		Short: "Recursively search through your files.",
		Long: `rseek walks a directory tree up to a maximum depth, reads every regular
file line by line and reports each line containing the literal search string
with its file name, line number and byte column.

Unreadable files and directories are logged and skipped. Only an unreadable
input directory aborts the search.

Defaults can be stored in ` + config.DefaultFileName + ` in the working directory:

  depth: 10
  log_level: info      # trace, debug, info, warn, error
  format: plain        # plain, table
  skip_hidden: false
  color: auto          # auto, always, never`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.readDir, "read-dir", "r", "", "input directory")
	flags.StringVarP(&opts.writeFile, "write-file", "w", "", "also write matches to this file; diagnostics go to <file>"+logSuffix)
	flags.StringVarP(&opts.searchString, "search-string", "s", "", "string to search for")
	flags.IntVarP(&opts.depth, "depth", "d", config.DefaultDepth, "max depth to search through")
	flags.StringVar(&opts.format, "format", "plain", "output format: plain or table")
	flags.BoolVar(&opts.skipHidden, "skip-hidden", false, "skip dot-prefixed files and directories")
	flags.StringVar(&opts.logLevel, "log-level", "info", "diagnostic verbosity: trace, debug, info, warn, error")
	flags.StringVar(&opts.color, "color", "auto", "colour diagnostics: auto, always, never")
	flags.StringVar(&opts.configPath, "config", "", "config file (default "+config.DefaultFileName+" if present)")

	_ = cmd.MarkFlagRequired("read-dir")
	_ = cmd.MarkFlagRequired("search-string")
	_ = cmd.MarkFlagFilename("read-dir")
	_ = cmd.MarkFlagFilename("write-file")
	_ = cmd.MarkFlagFilename("config", "yaml", "yml")

	return cmd
}

func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	path := config.DefaultFileName
	if opts.configPath != "" {
		if _, err := os.Stat(opts.configPath); err != nil {
			return nil, fmt.Errorf("failed to access config file: %w", err)
		}
		path = opts.configPath
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	var (
		depth      *int
		logLevel   *string
		format     *string
		skipHidden *bool
		color      *string
	)
	flags := cmd.Flags()
	if flags.Changed("depth") {
		depth = &opts.depth
	}
	if flags.Changed("log-level") {
		logLevel = &opts.logLevel
	}
	if flags.Changed("format") {
		format = &opts.format
	}
	if flags.Changed("skip-hidden") {
		skipHidden = &opts.skipHidden
	}
	if flags.Changed("color") {
		color = &opts.color
	}
	cfg.MergeWithFlags(depth, logLevel, format, skipHidden, color)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func run(cmd *cobra.Command, opts *options) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	format, err := output.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	log := logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel, logger.ColorMode(cfg.Color))

	if opts.writeFile != "" {
		logFile, err := openDiagnosticsFile(opts.writeFile + logSuffix)
		if err != nil {
			return err
		}
		defer func() {
			_ = logFile.Close()
		}()
		log.Mirror(logFile)
	}

	log.Tracef("Effective config: depth=%d format=%s skip_hidden=%t log_level=%s color=%s",
		cfg.Depth, format, cfg.SkipHidden, cfg.LogLevel, cfg.Color)
	log.Infof("Reading from directory %s", opts.readDir)
	log.Infof("Searching for '%s'", opts.searchString)

	req := search.Request{
		Root:       opts.readDir,
		Query:      opts.searchString,
		MaxDepth:   cfg.Depth,
		SkipHidden: cfg.SkipHidden,
	}

	var stats search.Stats
	start := time.Now()
	matches, err := search.Search(newFilesystem(), req, search.WithReporter(log), search.WithStats(&stats))
	if err != nil {
		if errors.Is(err, search.ErrRootUnreadable) {
			log.Errorf("Could not read input directory: %s", opts.readDir)
			log.Infof("Exiting program...")
		}
		return err
	}
	log.Debugf("Scanned %d files (%d lines) in %d directories in %s, %d problems",
		stats.FilesScanned, stats.LinesRead, stats.DirsListed, time.Since(start).Round(time.Millisecond), stats.Failures())

	if err := output.Render(cmd.OutOrStdout(), matches, format); err != nil {
		return err
	}

	if opts.writeFile != "" {
		if err := output.WriteFile(opts.writeFile, matches, format); err != nil {
			return err
		}
		log.Infof("Wrote %d matches to %s", len(matches), opts.writeFile)
	}

	return nil
}

func openDiagnosticsFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open diagnostics file: %w", err)
	}
	return f, nil
}
