package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/pagenav/internal/library"
	"github.com/ziadkadry99/pagenav/internal/progress"
)

var outlineJSON bool

var outlineCmd = &cobra.Command{
	Use:   "outline [slug]",
	Short: "Print the navigation outline of the documents",
	Long: `Without arguments, lists every document with its section count.
With a slug, prints that document's navigation entries in order.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg, true)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		lib, err := loadLibrary(cmd.Context(), cfg, logger, progress.Discard{})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(args) == 0 {
			return printDocuments(out, lib.List(), outlineJSON)
		}
		entry, ok := lib.Get(args[0])
		if !ok {
			return fmt.Errorf("no document %q", args[0])
		}
		return printOutline(out, entry, outlineJSON)
	},
}

func init() {
	outlineCmd.Flags().BoolVar(&outlineJSON, "json", false, "print JSON")
	rootCmd.AddCommand(outlineCmd)
}

func printDocuments(w io.Writer, docs []library.Summary, asJSON bool) error {
	if asJSON {
		return writeIndented(w, docs)
	}
	if len(docs) == 0 {
		_, err := fmt.Fprintln(w, "No documents found.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SLUG\tSECTIONS\tTITLE\tPATH")
	for _, d := range docs {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", d.Slug, d.Sections, d.Title, d.Path)
	}
	return tw.Flush()
}

func printOutline(w io.Writer, entry *library.Entry, asJSON bool) error {
	entries := entry.Registry.Current().Entries()
	if asJSON {
		return writeIndented(w, map[string]any{
			"slug":    entry.Slug,
			"title":   entry.Doc.Title,
			"entries": entries,
		})
	}
	fmt.Fprintf(w, "%s (%s)\n", entry.Doc.Title, entry.Slug)
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "  no sections; navigation is inactive")
		return err
	}
	for i, e := range entries {
		fmt.Fprintf(w, "  %2d. %-30s %s\n", i+1, e.Label, e.Href)
	}
	return nil
}

func writeIndented(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
