package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nadc-tools/inquire/internal/archive"
	"github.com/nadc-tools/inquire/internal/catalog"
	"github.com/nadc-tools/inquire/internal/config"
	"github.com/nadc-tools/inquire/internal/filter"
)

// printer renders result rows for one output mode. File-path output resolves
// each product name through the local path registry.
type printer struct {
	cmd      *cobra.Command
	mode     filter.OutputMode
	resolver *archive.Resolver
}

func newPrinter(cmd *cobra.Command, p *catalog.Profile, cfg *config.Config, mode filter.OutputMode) (*printer, error) {
	pr := &printer{cmd: cmd, mode: mode}
	if mode == filter.OutputFilePath {
		path := cfg.Archive.PathDB
		if path == "" {
			path = archive.DefaultRegistryPath(p)
		}
		r, err := archive.Open(path, p)
		if err != nil {
			return nil, err
		}
		pr.resolver = r
	}
	return pr, nil
}

// Close releases the path registry when one was opened.
func (pr *printer) Close() error {
	if pr.resolver != nil {
		return pr.resolver.Close()
	}
	return nil
}

// Print writes one result row to the command's output.
func (pr *printer) Print(row []any) error {
	switch pr.mode {
	case filter.OutputFileName, filter.OutputProduct:
		fmt.Fprintln(pr.cmd.OutOrStdout(), formatValue(row[0]))
	case filter.OutputFilePath:
		path, err := pr.resolver.PathFor(formatValue(row[0]))
		if err != nil {
			return err
		}
		fmt.Fprintln(pr.cmd.OutOrStdout(), path)
	default:
		parts := make([]string, len(row))
		for i, v := range row {
			parts[i] = formatValue(v)
		}
		fmt.Fprintln(pr.cmd.OutOrStdout(), strings.Join(parts, " "))
	}
	return nil
}

// formatValue renders one column value the way the archive reports expect:
// timestamps without zone suffix, everything else in its natural form.
func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "None"
	case time.Time:
		return t.Format("2006-01-02 15:04:05")
	case string:
		return strings.TrimSpace(t)
	default:
		return fmt.Sprint(t)
	}
}
