package commands

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

const (
	statsCmdUse   = "stats"
	statsCmdShort = "Summarize and verify the dictionary"
)

func buildStatsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   statsCmdUse,
		Short: statsCmdShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runStats(cmd)
		},
	}
}

func (a *app) runStats(cmd *cobra.Command) error {
	dict, err := a.loadDictionary(true)
	if err != nil {
		return err
	}

	info, err := os.Stat(dict.path)
	if err != nil {
		return fmt.Errorf("stat dictionary: %w", err)
	}

	err = verify(dict.table)
	if err != nil {
		return err
	}

	counts, err := a.providers.Snapshot(a.ctx)
	if err != nil {
		return err
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Property", "Value"})
	tw.AppendRows([]table.Row{
		{"Dictionary", dict.path},
		{"Backing", a.cfg.Table.Backing},
		{"Codec", a.cfg.Store.Codec},
		{"Compressed", a.cfg.Store.Compress},
		{"Values", humanize.Comma(int64(dict.table.Size()))},
		{"On disk", humanize.Bytes(uint64(max(info.Size(), 0)))},
		{"Verified", fmt.Sprintf("%d codes", dict.table.Size())},
	})
	tw.AppendFooter(table.Row{"Lookups", fmt.Sprintf("%d hits / %d misses", counts.Hits(), counts.Misses())})

	_, err = fmt.Fprintln(cmd.OutOrStdout(), tw.Render())
	if err != nil {
		return fmt.Errorf("write stats: %w", err)
	}

	return nil
}
