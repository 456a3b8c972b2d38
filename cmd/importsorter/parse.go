package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gnana997/importsorter/pkg/extractor"
	"github.com/gnana997/importsorter/pkg/parser"
	"github.com/gnana997/importsorter/pkg/util"
)

func newParseCmd(a *app) *cobra.Command {
	var stdinPath string

	cmd := &cobra.Command{
		Use:   "parse <file|->",
		Short: "Print the imports of a file as JSON",
		Long: `Print the import elements, used identifiers and diagnostics the sorter
sees in a file. Use "-" to read the source from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			var source []byte
			var err error
			if path == "-" {
				path = stdinPath
				source, err = io.ReadAll(a.stdin)
			} else {
				source, err = util.ReadSource(path)
			}
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			pm := parser.NewParserManager(a.logger)
			defer pm.Close()

			res, err := extractor.New(pm, a.logger).Extract(path, source)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(a.stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
	cmd.Flags().StringVar(&stdinPath, "stdin-path", "stdin.ts", "File name used to pick the grammar for stdin")
	return cmd
}
