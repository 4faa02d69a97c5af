package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/bsonkit/cmd/bsonctl/logger"
	"github.com/joshuapare/bsonkit/lazy"
	"github.com/joshuapare/bsonkit/pkg/bsonfile"
	"github.com/joshuapare/bsonkit/pkg/types"
)

var (
	// Global flags
	verbose     bool
	quiet       bool
	jsonOut     bool
	debug       bool
	logFile     string
	maxDocSize  int
	replaceUTF8 bool
	allowDup    bool

	closeLog = func() error { return nil }

	// lifecycle counters across every document the command opened
	lazyStats = &lazy.Stats{}
)

var rootCmd = &cobra.Command{
	Use:   "bsonctl",
	Short: "Inspect BSON dump files without decoding them up front",
	Long: `bsonctl reads BSON dump files (documents laid end to end, optionally
zstd-compressed) and decodes only the parts a command actually looks at.`,
	Version: "0.1.0",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		closeLog, err = logger.Init(logger.Options{
			Enabled: debug || logFile != "",
			Path:    logFile,
			Level:   slog.LevelDebug,
		})
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log lifecycle events to stderr")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Append debug logs to this file")
	rootCmd.PersistentFlags().
		IntVar(&maxDocSize, "max-size", types.DefaultMaxDocumentSize, "Largest accepted document or array, in bytes")
	rootCmd.PersistentFlags().
		BoolVar(&replaceUTF8, "replace-utf8", false, "Replace invalid UTF-8 with U+FFFD instead of failing")
	rootCmd.PersistentFlags().
		BoolVar(&allowDup, "allow-duplicates", false, "Accept documents that repeat a field name")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openDump opens path with the options the global flags select.
func openDump(path string) (*bsonfile.File, error) {
	printVerbose("Opening: %s\n", path)
	f, err := bsonfile.Open(path, &bsonfile.OpenOptions{
		Options: types.Options{
			MaxDocumentSize:     maxDocSize,
			ReplaceInvalidUTF8:  replaceUTF8,
			AllowDuplicateNames: allowDup,
			Logger:              logger.L,
		},
		Lazy: []lazy.Option{lazy.WithStats(lazyStats)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	if f.Compressed() {
		printVerbose("Decompressed zstd input: %d bytes\n", f.Size())
	}
	return f, nil
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
