package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/boshu2/daysince/internal/incident"
)

const seedDescription = "Start of tracking"

var (
	initDate        string
	initDescription string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Seed a new incident history",
	Long: `Create the history file with a single bootstrap record so that
"days since" is defined from the first run. Does nothing when the history
already has records.

Examples:
  daysince init
  daysince init --date 2025-01-01 --history ops/last_incident.json`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVar(&initDate, "date", "", "Start of tracking (YYYY-MM-DD, default: today)")
	initCmd.Flags().StringVar(&initDescription, "description", seedDescription, "Description of the bootstrap record")
}

func runInit(cmd *cobra.Command, args []string) error {
	today := incident.Today()
	var date incident.Date
	if initDate != "" {
		d, err := parseDay("date", initDate)
		if err != nil {
			return err
		}
		date = d
	}

	store := openStore()
	history, err := store.Load()
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if !history.Empty() {
		_, err := fmt.Fprintf(w, "%s already has %d incident(s), nothing to do\n", store.Location(), history.Len())
		return err
	}

	seed, err := incident.NewRecord(date, initDescription, "", "", today)
	if err != nil {
		return err
	}
	done, planned := "Created", "create"
	if store.Exists() {
		done, planned = "Seeded", "seed"
	}
	if GetDryRun() {
		_, err := fmt.Fprintf(w, "Would %s %s starting %s (dry run)\n", planned, store.Location(), seed.Date)
		return err
	}
	if err := store.Save(incident.NewHistory(seed)); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s %s, tracking since %s\n", done, store.Location(), seed.Date)
	return err
}
