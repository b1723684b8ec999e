package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// table is a header plus rows, rendered as aligned text or as JSON
type table struct {
	header []string
	rows   [][]string
	// raw is what --output json prints; the rows are only for humans
	raw any
}

func render(cmd *cobra.Command, t table) error {
	format, _ := cmd.Flags().GetString("output")
	return writeTable(cmd.OutOrStdout(), format, t)
}

func writeTable(w io.Writer, format string, t table) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(t.raw)
	case "table", "":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(t.header, "\t"))
		for _, row := range t.rows {
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
		return tw.Flush()
	}
	return fmt.Errorf("unknown output format %q", format)
}
