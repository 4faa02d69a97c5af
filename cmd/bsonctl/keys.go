package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/bsonkit/lazy"
)

var keysIndex int

func init() {
	cmd := newKeysCmd()
	cmd.Flags().IntVar(&keysIndex, "index", -1, "Only this document (0-based)")
	rootCmd.AddCommand(cmd)
}

func newKeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys <file>",
		Short: "List top-level field names",
		Long: `The keys command lists the top-level field names across a dump, in the
order they are first seen, with the number of documents carrying each.
Nested documents are not decoded.

Example:
  bsonctl keys users.bson
  bsonctl keys users.bson --index 3 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeys(args)
		},
	}
	return cmd
}

type keyCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func runKeys(args []string) error {
	f, err := openDump(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	var keys []keyCount
	pos := make(map[string]int)
	docs := 0
	err = eachDocument(f, keysIndex, 0, func(_ int, d *lazy.Document) error {
		names, err := d.Names()
		if err != nil {
			return err
		}
		docs++
		seen := make(map[string]bool, len(names))
		for _, name := range names {
			if seen[name] {
				continue
			}
			seen[name] = true
			i, ok := pos[name]
			if !ok {
				i = len(keys)
				pos[name] = i
				keys = append(keys, keyCount{Name: name})
			}
			keys[i].Count++
		}
		return nil
	})
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(map[string]any{
			"file":      args[0],
			"documents": docs,
			"keys":      keys,
		})
	}

	for _, k := range keys {
		printInfo("  %-24s %d\n", k.Name, k.Count)
	}
	printInfo("\nTotal: %d keys in %d documents\n", len(keys), docs)
	return nil
}
