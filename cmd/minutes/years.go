package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ccowmu/minutes/internal/config"
	"github.com/ccowmu/minutes/internal/store"
)

var yearsCmd = &cobra.Command{
	Use:   "years",
	Short: "List the years that have minutes",
	Long: `List every year present in the minutes, newest first, with the number
of minutes recorded in it. These are the values accepted by --year.`,
	Args: cobra.NoArgs,
	RunE: runYears,
}

func init() {
	rootCmd.AddCommand(yearsCmd)
}

func runYears(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	st, idx, err := loadIndex(commandContext(cmd), cfg, false)
	if err != nil {
		return err
	}
	defer func() { _ = idx.Close() }()

	return printYears(cmd.OutOrStdout(), st, asJSON)
}

// yearJSON is one row of 'minutes years --json'
type yearJSON struct {
	Year  string `json:"year"`
	Count int    `json:"count"`
}

// printYears lists the facet values of st with their counts
func printYears(w io.Writer, st *store.Store, jsonMode bool) error {
	years := st.Years()

	if jsonMode {
		rows := make([]yearJSON, 0, len(years))
		for _, y := range years {
			rows = append(rows, yearJSON{Year: y.Year, Count: y.Count})
		}
		return outputJSON(w, rows)
	}

	if len(years) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No minutes with a date."))
		return nil
	}

	for _, y := range years {
		noun := "meetings"
		if y.Count == 1 {
			noun = "meeting"
		}
		fmt.Fprintf(w, "%s  %s\n", titleStyle.Render(y.Year), mutedStyle.Render(fmt.Sprintf("%d %s", y.Count, noun)))
	}
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%d minutes in %d years", st.Len(), len(years))))
	return nil
}
