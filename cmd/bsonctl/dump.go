package main

import (
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/joshuapare/bsonkit/lazy"
)

var (
	dumpIndex     int
	dumpLimit     int
	dumpCanonical bool
)

func init() {
	cmd := newDumpCmd()
	cmd.Flags().IntVar(&dumpIndex, "index", -1, "Only this document (0-based)")
	cmd.Flags().IntVar(&dumpLimit, "limit", 0, "Stop after this many documents (0 = all)")
	cmd.Flags().BoolVar(&dumpCanonical, "canonical", false, "Canonical instead of relaxed extended JSON")
	rootCmd.AddCommand(cmd)
}

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Print documents as extended JSON",
		Long: `The dump command prints each document as one line of MongoDB extended
JSON, converted straight from the encoded bytes.

Example:
  bsonctl dump users.bson --limit 10
  bsonctl dump users.bson --index 0 --canonical`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(args)
		},
	}
	return cmd
}

func runDump(args []string) error {
	f, err := openDump(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	return eachDocument(f, dumpIndex, dumpLimit, func(i int, d *lazy.Document) error {
		out, err := bson.MarshalExtJSON(bson.Raw(d.RawBuffer()), dumpCanonical, false)
		if err != nil {
			return err
		}
		printVerbose("#%d ", i)
		printInfo("%s\n", out)
		return nil
	})
}
