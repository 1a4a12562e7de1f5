package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/notesearch/internal/core/domain"
)

var recentJSON bool

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show or clear recent searches",
	Long: `Lists the last ten completed searches, newest first.

The list is shared with the terminal UI.`,
	RunE: runRecentList,
}

var recentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent searches",
	RunE:  runRecentList,
}

var recentClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear recent searches",
	RunE:  runRecentClear,
}

func init() {
	recentCmd.PersistentFlags().BoolVar(&recentJSON, "json", false, "output as JSON")
	recentCmd.AddCommand(recentListCmd)
	recentCmd.AddCommand(recentClearCmd)
	rootCmd.AddCommand(recentCmd)
}

func runRecentList(cmd *cobra.Command, _ []string) error {
	if recentService == nil {
		return errors.New("recent searches not configured")
	}

	list := recentService.List(cmd.Context())

	if recentJSON {
		data, err := json.MarshalIndent(list, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal recent searches: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(list) == 0 {
		cmd.Println("No recent searches.")
		return nil
	}

	t := now()
	for i, r := range list {
		when := r.Time().Local().Format("Jan 2 15:04")
		if r.Time().Local().YearDay() == t.YearDay() && r.Time().Year() == t.Year() {
			when = r.Time().Local().Format("15:04")
		}
		cmd.Printf("  %2d. %-40s %s, %s\n", i+1, truncate(r.Query, 40), domain.Pluralise(r.ResultCount, "result"), when)
	}
	return nil
}

func runRecentClear(cmd *cobra.Command, _ []string) error {
	if recentService == nil {
		return errors.New("recent searches not configured")
	}

	recentService.Clear(cmd.Context())
	cmd.Println("Recent searches cleared.")
	return nil
}

// truncate shortens s to maxLen runes, ending with "...".
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
