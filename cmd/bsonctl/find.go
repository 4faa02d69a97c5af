package main

import (
	"fmt"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/joshuapare/bsonkit/cmd/bsonctl/logger"
	"github.com/joshuapare/bsonkit/lazy"
)

var (
	findWhere string
	findLimit int
	findCount bool
)

func init() {
	cmd := newFindCmd()
	cmd.Flags().StringVarP(&findWhere, "where", "w", "", "Filter expression evaluated against each document")
	cmd.Flags().IntVar(&findLimit, "limit", 0, "Stop after this many matches (0 = all)")
	cmd.Flags().BoolVar(&findCount, "count", false, "Print only the number of matches")
	_ = cmd.MarkFlagRequired("where")
	rootCmd.AddCommand(cmd)
}

func newFindCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find <file> --where <expr>",
		Short: "Print documents matching a filter expression",
		Long: `The find command evaluates an expr-lang expression against each
document's fields and prints the matching documents as extended JSON.
Missing fields evaluate to nil.

Example:
  bsonctl find users.bson --where 'age > 30'
  bsonctl find users.bson --where 'name startsWith "a" && "admin" in tags'
  bsonctl find users.bson --where 'address?.city == "Oslo"' --count`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(args)
		},
	}
	return cmd
}

func compileFilter(where string) (*exprvm.Program, error) {
	if where == "" {
		return nil, fmt.Errorf("filter expression must not be empty")
	}
	program, err := exprlang.Compile(where,
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
		exprlang.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid filter %q: %w", where, err)
	}
	return program, nil
}

func runFind(args []string) error {
	program, err := compileFilter(findWhere)
	if err != nil {
		return err
	}
	f, err := openDump(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	matches := 0
	err = eachDocument(f, -1, 0, func(i int, d *lazy.Document) error {
		if findLimit > 0 && matches >= findLimit {
			return nil
		}
		// The clone keeps the encoded bytes for printing; d gets decoded.
		keep, err := d.Clone()
		if err != nil {
			return err
		}
		defer keep.Close()

		env, err := d.ToMap()
		if err != nil {
			return err
		}
		out, err := exprlang.Run(program, env)
		if err != nil {
			logger.Warn("filter evaluation failed", "document", i, "error", err)
			printVerbose("#%d: %v\n", i, err)
			return nil
		}
		if ok, _ := out.(bool); !ok {
			return nil
		}
		matches++
		if findCount {
			return nil
		}
		js, err := bson.MarshalExtJSON(bson.Raw(keep.RawBuffer()), false, false)
		if err != nil {
			return err
		}
		printInfo("%s\n", js)
		return nil
	})
	if err != nil {
		return err
	}
	if findCount {
		if jsonOut {
			return printJSON(map[string]any{"file": args[0], "where": findWhere, "matches": matches})
		}
		printInfo("%d\n", matches)
	}
	return nil
}
