package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"neon-cinema-cli/booking"
)

var moviesCmd = &cobra.Command{
	Use:   "movies [query]",
	Short: "List the current movie catalog, optionally filtered by title",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := newClient(cfg)

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout())
		defer cancel()
		movies, err := client.GetMovies(ctx)
		if err != nil {
			return fmt.Errorf("loading catalog: %w", err)
		}
		if len(args) == 1 {
			movies = booking.FilterByTitle(movies, args[0])
		}
		if len(movies) == 0 {
			fmt.Println("No movies available.")
			return nil
		}

		t := table.New().
			Border(lipgloss.RoundedBorder()).
			Headers("TITLE", "DURATION", "GENRE", "RATING")
		for _, movie := range movies {
			duration := ""
			if movie.DurationMins > 0 {
				duration = fmt.Sprintf("%dm", movie.DurationMins)
			}
			t.Row(movie.Title, duration, movie.Genre, movie.Rating)
		}
		fmt.Println(t.Render())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(moviesCmd)
}
