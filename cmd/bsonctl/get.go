package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/joshuapare/bsonkit/lazy"
	"github.com/joshuapare/bsonkit/pkg/types"
)

var (
	getIndex int
	getLimit int
)

func init() {
	cmd := newGetCmd()
	cmd.Flags().IntVar(&getIndex, "index", -1, "Only this document (0-based)")
	cmd.Flags().IntVar(&getLimit, "limit", 0, "Stop after this many documents (0 = all)")
	rootCmd.AddCommand(cmd)
}

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <file> <path>",
		Short: "Print the value at a dotted path",
		Long: `The get command resolves a dotted path such as "user.tags.0" in each
document. Only the containers along the path are decoded. Documents that
lack the path are skipped.

Example:
  bsonctl get users.bson name
  bsonctl get users.bson address.city --index 10
  bsonctl get users.bson tags.0 --limit 5 --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(args)
		},
	}
	return cmd
}

type getResult struct {
	Index int    `json:"index"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

func runGet(args []string) error {
	path := args[1]
	f, err := openDump(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	var results []getResult
	err = eachDocument(f, getIndex, getLimit, func(i int, d *lazy.Document) error {
		v, err := d.Path(path)
		if errors.Is(err, types.ErrNotFound) {
			printVerbose("#%d: %s not found\n", i, path)
			return nil
		}
		if err != nil {
			return err
		}
		s, err := render(v)
		if err != nil {
			return err
		}
		results = append(results, getResult{Index: i, Type: v.Type().String(), Value: s})
		return nil
	})
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(map[string]any{
			"file":    args[0],
			"path":    path,
			"results": results,
		})
	}
	for _, r := range results {
		if verbose {
			printInfo("#%d (%s): %s\n", r.Index, r.Type, r.Value)
			continue
		}
		printInfo("%s\n", r.Value)
	}
	return nil
}
