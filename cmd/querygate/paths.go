package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/querygate/querygate/pkg/normalize"
	"github.com/querygate/querygate/pkg/perms"
	"github.com/querygate/querygate/pkg/query"
	"github.com/querygate/querygate/pkg/store/sqlite"
)

var (
	pathsDBPath    string
	pathsPropagate bool
)

var pathsCmd = &cobra.Command{
	Use:   "paths [query.json]",
	Short: "Print the permission paths a query requires",
	Long: `Print the permission paths a query requires, one per line, sorted.

The query is read from the given JSON file, or from stdin when the
argument is omitted or "-".`,
	Example: `  # Structured query from a file
  querygate paths --db meta.db query.json

  # Native query from stdin
  echo '{"type":"native","database":2}' | querygate paths --db meta.db`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var in io.Reader = os.Stdin
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}

		var q query.Query
		if err := json.NewDecoder(in).Decode(&q); err != nil {
			return fmt.Errorf("decoding query: %w", err)
		}

		store, err := sqlite.Open(pathsDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		resolver := perms.NewResolver(normalize.New(), store, store, store)

		var opts []perms.ComputeOption
		if pathsPropagate {
			opts = append(opts, perms.WithPropagateErrors())
		}
		set, err := resolver.RequiredPermissions(cmd.Context(), &q, opts...)
		if err != nil {
			return err
		}
		for _, p := range set.Slice() {
			fmt.Println(p)
		}
		return nil
	},
}

func init() {
	pathsCmd.Flags().StringVar(&pathsDBPath, "db", "querygate.db", "SQLite metadata database")
	pathsCmd.Flags().BoolVar(&pathsPropagate, "propagate-errors", false, "fail on resolution errors instead of printing the deny-all sentinel")
}
