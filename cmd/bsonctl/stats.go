package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/joshuapare/bsonkit/lazy"
)

var (
	statsShallow bool
)

func init() {
	cmd := newStatsCmd()
	cmd.Flags().BoolVar(&statsShallow, "shallow", false, "Only look at top-level fields")
	rootCmd.AddCommand(cmd)
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <file>",
		Short: "Show detailed statistics",
		Long: `The stats command walks every document in a dump and reports field
counts, the type distribution, and nesting depth. It also reports how many
containers were decoded, which with --shallow stays at one per document.

Example:
  bsonctl stats users.bson
  bsonctl stats users.bson --shallow --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(args)
		},
	}
	return cmd
}

type DumpStats struct {
	FilePath   string
	Bytes      int
	Compressed bool

	Documents int
	Fields    int
	Elements  int
	MaxDepth  int

	Types map[string]int

	Lazy lazy.StatsSnapshot
}

func runStats(args []string) error {
	f, err := openDump(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	before := lazyStats.Snapshot()
	stats := DumpStats{
		FilePath:   args[0],
		Bytes:      f.Size(),
		Compressed: f.Compressed(),
		Types:      make(map[string]int),
	}

	err = eachDocument(f, -1, 0, func(_ int, d *lazy.Document) error {
		stats.Documents++
		return stats.walkDocument(d, 1)
	})
	if err != nil {
		return err
	}

	// Close the remaining handles so the closed count covers them.
	if err := f.Close(); err != nil {
		return err
	}
	after := lazyStats.Snapshot()
	stats.Lazy = lazy.StatsSnapshot{
		Materialized: after.Materialized - before.Materialized,
		RolledBack:   after.RolledBack - before.RolledBack,
		Malformed:    after.Malformed - before.Malformed,
		Cloned:       after.Cloned - before.Cloned,
		Closed:       after.Closed - before.Closed,
	}

	if jsonOut {
		return printJSON(stats)
	}
	printStats(stats)
	return nil
}

func (s *DumpStats) walkDocument(d *lazy.Document, depth int) error {
	s.MaxDepth = max(s.MaxDepth, depth)
	all, err := d.All()
	if err != nil {
		return err
	}
	for _, v := range all {
		s.Fields++
		if err := s.visit(v, depth); err != nil {
			return err
		}
	}
	return nil
}

func (s *DumpStats) walkArray(a *lazy.Array, depth int) error {
	s.MaxDepth = max(s.MaxDepth, depth)
	all, err := a.All()
	if err != nil {
		return err
	}
	for _, v := range all {
		s.Elements++
		if err := s.visit(v, depth); err != nil {
			return err
		}
	}
	return nil
}

func (s *DumpStats) visit(v lazy.Value, depth int) error {
	s.Types[v.Type().String()]++
	if statsShallow {
		return nil
	}
	switch v.Kind() {
	case lazy.KindDocument:
		d, err := v.Document()
		if err != nil {
			return err
		}
		return s.walkDocument(d, depth+1)
	case lazy.KindArray:
		a, err := v.Array()
		if err != nil {
			return err
		}
		return s.walkArray(a, depth+1)
	}
	return nil
}

func printStats(s DumpStats) {
	printInfo("File: %s\n", s.FilePath)
	if s.Compressed {
		printInfo("Size: %d bytes (zstd)\n", s.Bytes)
	} else {
		printInfo("Size: %d bytes\n", s.Bytes)
	}
	printInfo("\nStructure:\n")
	printInfo("  Documents:      %d\n", s.Documents)
	printInfo("  Fields:         %d\n", s.Fields)
	printInfo("  Array elements: %d\n", s.Elements)
	printInfo("  Max depth:      %d\n", s.MaxDepth)

	if len(s.Types) > 0 {
		printInfo("\nTypes:\n")
		names := make([]string, 0, len(s.Types))
		for name := range s.Types {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool {
			if s.Types[names[i]] != s.Types[names[j]] {
				return s.Types[names[i]] > s.Types[names[j]]
			}
			return names[i] < names[j]
		})
		for _, name := range names {
			printInfo("  %-16s %d\n", name+":", s.Types[name])
		}
	}

	printInfo("\nDecoding:\n")
	printInfo("  Materialized: %d\n", s.Lazy.Materialized)
	printInfo("  Rolled back:  %d\n", s.Lazy.RolledBack)
	printInfo("  Malformed:    %d\n", s.Lazy.Malformed)
	printInfo("  Closed:       %d\n", s.Lazy.Closed)
	if s.Lazy.Malformed > 0 {
		printInfo("\n%s\n", fmt.Sprintf("%d containers failed to decode", s.Lazy.Malformed))
	}
}
