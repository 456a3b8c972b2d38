package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gnana997/importsorter/pkg/workspace"
)

// errUnsorted is returned by sort --check when a file would change.
var errUnsorted = errors.New("imports are not sorted")

type sortOptions struct {
	write     bool
	check     bool
	jsonOut   bool
	stdinPath string
	workers   int
	include   []string
	exclude   []string
}

// sortReport is printed by sort --json.
type sortReport struct {
	Changed []string              `json:"changed"`
	Errors  []workspace.FileError `json:"errors,omitempty"`
}

func newSortCmd(a *app) *cobra.Command {
	var opts sortOptions

	cmd := &cobra.Command{
		Use:   "sort [path...]",
		Short: "Sort the imports of files and directories",
		Long: `Sort the imports of the given files, recursing into directories.

Files whose imports would change are listed on stdout. With --write they are
rewritten in place; with --check the command fails when any file is listed.
Without a path, or with "-", the source is read from stdin and the sorted
text is written to stdout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
				return runSortStdin(a, opts)
			}
			return runSort(cmd, a, opts, args)
		},
	}

	cmd.Flags().BoolVarP(&opts.write, "write", "w", false, "Rewrite files in place")
	cmd.Flags().BoolVar(&opts.check, "check", false, "Fail when a file is not sorted")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "Print a JSON report instead of file names")
	cmd.Flags().StringVar(&opts.stdinPath, "stdin-path", "stdin.ts",
		"File name used to pick the grammar and exclusions for stdin")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "Parallel workers for directories (0 = auto)")
	cmd.Flags().StringSliceVar(&opts.include, "include", workspace.DefaultInclude,
		"Glob patterns of files to sort inside directories")
	cmd.Flags().StringSliceVar(&opts.exclude, "exclude", workspace.DefaultExclude,
		"Glob patterns of files and directories to skip")
	cmd.MarkFlagsMutuallyExclusive("write", "check")

	return cmd
}

func runSortStdin(a *app, opts sortOptions) error {
	source, err := io.ReadAll(a.stdin)
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}

	cfg, err := a.loadConfig(".")
	if err != nil {
		return err
	}
	r, pm, err := a.buildRunner(cfg)
	if err != nil {
		return err
	}
	defer pm.Close()

	out, err := r.Process(opts.stdinPath, source)
	if err != nil {
		return err
	}
	if opts.check {
		if out.Changed {
			fmt.Fprintln(a.stdout, opts.stdinPath)
			return errUnsorted
		}
		return nil
	}
	_, err = io.WriteString(a.stdout, out.Text)
	return err
}

func runSort(cmd *cobra.Command, a *app, opts sortOptions, paths []string) error {
	cfg, err := a.loadConfig(".")
	if err != nil {
		return err
	}
	r, pm, err := a.buildRunner(cfg)
	if err != nil {
		return err
	}
	defer pm.Close()

	report := sortReport{Changed: []string{}}
	scanner := workspace.NewScanner(r, a.logger)

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("invalid path %s: %w", path, err)
		}

		if !info.IsDir() {
			out, err := r.ProcessFile(path, opts.write)
			if err != nil {
				report.Errors = append(report.Errors, workspace.FileError{Path: path, Err: err})
				continue
			}
			if out.Changed {
				report.Changed = append(report.Changed, path)
			}
			continue
		}

		stats, err := scanner.SortDirectory(cmd.Context(), path, workspace.Options{
			Include: opts.include,
			Exclude: opts.exclude,
			Write:   opts.write,
			Workers: opts.workers,
		}, nil)
		if err != nil {
			return err
		}
		report.Changed = append(report.Changed, stats.ChangedFiles...)
		report.Errors = append(report.Errors, stats.Errors...)
	}

	if err := printReport(a.stdout, report, opts.jsonOut); err != nil {
		return err
	}
	for _, fe := range report.Errors {
		fmt.Fprintf(a.stderr, "%v\n", fe)
	}

	if len(report.Errors) > 0 {
		return fmt.Errorf("%d file(s) could not be sorted", len(report.Errors))
	}
	if opts.check && len(report.Changed) > 0 {
		return errUnsorted
	}
	return nil
}

func printReport(w io.Writer, report sortReport, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	for _, path := range report.Changed {
		if _, err := fmt.Fprintln(w, path); err != nil {
			return err
		}
	}
	return nil
}
