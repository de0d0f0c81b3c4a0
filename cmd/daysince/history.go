package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/boshu2/daysince/internal/formatter"
)

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"list", "ls"},
	Short:   "List recorded incidents",
	Long: `List every recorded incident, oldest first, with the streak it ended.

Examples:
  daysince history
  daysince history -o jsonl > incidents.jsonl
  daysince history -o markdown`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	history, err := openStore().Load()
	if err != nil {
		return err
	}
	rows := formatter.NewHistoryRows(history)

	w := cmd.OutOrStdout()
	switch GetOutput() {
	case "json", "yaml":
		return writeStructured(w, GetOutput(), rows)
	case "jsonl":
		return formatter.NewJSONLFormatter().Format(w, rows)
	case "markdown":
		return formatter.NewMarkdownFormatter(cfg.Team).FormatHistory(w, rows)
	}

	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No incidents recorded. Run 'daysince init' to start tracking.")
		return err
	}
	return formatter.WriteHistoryTable(w, rows)
}
