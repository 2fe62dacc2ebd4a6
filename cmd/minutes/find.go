package main

import (
	"github.com/spf13/cobra"
)

var findCmd = &cobra.Command{
	Use:   "find [query...]",
	Short: "Search the minutes (alias for direct search)",
	Long: `Search the minutes for every word of the query.
A minutes entry matches when any word is a prefix of a word in its title or text.
If no query is provided, the interactive search opens.

This command is an alias for the direct search: 'minutes <query>'
You can use either 'minutes find budget' or just 'minutes budget'

Examples:
  minutes find budget
  minutes find -y 2023 server upgrade`,
	RunE: runSearch, // Same function as root command (handles multi-word queries)
}

func init() {
	rootCmd.AddCommand(findCmd)
}
