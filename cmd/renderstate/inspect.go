package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/renderstate/internal/errors"
	"github.com/vango-dev/renderstate/pkg/store"
)

func inspectCmd() *cobra.Command {
	var (
		key    string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <snapshot.json>",
		Short: "Print the records of a store snapshot",
		Long: `Print the records of a store snapshot file, sorted by key.

A snapshot is the JSON object written by the devtools /snapshot route.

Examples:
  renderstate inspect snapshot.json
  renderstate inspect snapshot.json --key user
  renderstate inspect snapshot.json --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := readSnapshot(args[0])
			if err != nil {
				return err
			}
			if key != "" {
				rec, ok := snap[key]
				if !ok {
					return errors.New("R023").WithDetail(fmt.Sprintf("Snapshot %s has no record for key %q.", args[0], key))
				}
				snap = map[string]store.Record{key: rec}
			}
			if asJSON {
				return store.EncodeSnapshot(cmd.OutOrStdout(), snap)
			}
			return printTable(cmd.OutOrStdout(), snap)
		},
	}

	cmd.Flags().StringVarP(&key, "key", "k", "", "Only show the record for this key")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")

	return cmd
}

func readSnapshot(path string) (map[string]store.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.New("R040").Wrap(err)
	}
	defer f.Close()
	return store.DecodeSnapshot(f)
}

func printTable(w io.Writer, snap map[string]store.Record) error {
	keys := make([]string, 0, len(snap))
	for k := range snap {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tSTATUS\tCURRENT\tPREVIOUS\tORIGIN")
	for _, k := range keys {
		rec := snap[k]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			k,
			rec.Status,
			cell(rec.CurrentData, rec.CurrentError),
			cell(rec.PreviousData, rec.PreviousError),
			orDash(rec.LatestUpdatedID))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	noun := "records"
	if len(keys) == 1 {
		noun = "record"
	}
	_, err := fmt.Fprintf(w, "\n%d %s\n", len(keys), noun)
	return err
}

// cell renders a data/error pair. An error takes precedence.
func cell(data any, err error) string {
	if err != nil {
		return "error: " + err.Error()
	}
	if data == nil {
		return "-"
	}
	b, jerr := json.Marshal(data)
	if jerr != nil {
		return fmt.Sprint(data)
	}
	return string(b)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
