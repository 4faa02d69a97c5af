package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/bsonkit/lazy"
)

func init() {
	rootCmd.AddCommand(newCountCmd())
}

func newCountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "count <file>",
		Short: "Count the documents in a dump",
		Long: `The count command walks the document length prefixes of a dump file.
No document is decoded.

Example:
  bsonctl count users.bson
  bsonctl count users.bson.zst --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCount(args)
		},
	}
	return cmd
}

func runCount(args []string) error {
	f, err := openDump(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	n := 0
	err = eachDocument(f, -1, 0, func(int, *lazy.Document) error {
		n++
		return nil
	})
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(map[string]any{
			"file":       args[0],
			"documents":  n,
			"bytes":      f.Size(),
			"compressed": f.Compressed(),
		})
	}
	printInfo("%d documents\n", n)
	return nil
}
