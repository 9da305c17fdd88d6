package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show bookings made from this machine",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return fmt.Errorf("opening booking history: %w", err)
		}
		defer store.Close()

		entries, err := store.Recent(historyLimit)
		if err != nil {
			return fmt.Errorf("reading booking history: %w", err)
		}
		if len(entries) == 0 {
			fmt.Println("No bookings yet.")
			return nil
		}

		t := table.New().
			Border(lipgloss.RoundedBorder()).
			Headers("WHEN", "MOVIE", "ROOM", "SEATS", "TOTAL", "CONFIRMATION")
		for _, e := range entries {
			t.Row(
				e.StartTime.Local().Format("Mon 02 Jan 15:04"),
				e.MovieTitle,
				e.Auditorium,
				strings.Join(e.Seats, ", "),
				"$"+e.Total,
				e.BookingId,
			)
		}
		fmt.Println(t.Render())
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of bookings to show")
	rootCmd.AddCommand(historyCmd)
}
