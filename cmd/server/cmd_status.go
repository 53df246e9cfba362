package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/bell-board/backend/internal/api/handlers"
	"github.com/bell-board/backend/internal/timetable"
	"github.com/spf13/cobra"
)

var (
	statusAt   string
	statusJSON bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the board status at an instant",
	Long: `Resolve the board as the displays would show it.

Examples:
  # Status right now
  bell-board status

  # Friday lunch, local time
  bell-board status --at 2025-01-10T12:30:00
`,
	RunE: runStatus,
}

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Print the weekly timetable with adjusted bell times",
	RunE:  runWeek,
}

func init() {
	statusCmd.Flags().StringVar(&statusAt, "at", "", "Instant to resolve (RFC 3339 or YYYY-MM-DDTHH:MM:SS in BELLBOARD_TIMEZONE)")
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Print JSON instead of text")
	rootCmd.AddCommand(statusCmd, weekCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}
	tt, err := loadTimetable()
	if err != nil {
		return fmt.Errorf("load timetable: %w", err)
	}
	resolver := timetable.NewResolverWithLocation(tt, cfg.Location)

	at := time.Now()
	if statusAt != "" {
		if at, err = handlers.ParseInstant(statusAt, cfg.Location); err != nil {
			return err
		}
	}

	resp := handlers.ResolveAt(resolver, at)
	if statusJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s  %s\n", resp.Clock, resp.Status.Title)
	if resp.Status.LessonName != "" {
		fmt.Fprintf(out, "  ders:   %s\n", resp.Status.LessonName)
	}
	if resp.Status.OfficialEndsAt != "" {
		fmt.Fprintf(out, "  bitiş:  %s\n", resp.Status.OfficialEndsAt)
	}
	if resp.Countdown != nil {
		fmt.Fprintf(out, "  zil:    %d sn\n", *resp.Countdown)
	}
	if resp.NextLesson != nil {
		fmt.Fprintf(out, "  sonraki: %s (%s)\n", resp.NextLesson.Name, resp.NextLesson.StartTime)
	}
	return nil
}

func runWeek(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}
	tt, err := loadTimetable()
	if err != nil {
		return fmt.Errorf("load timetable: %w", err)
	}

	grid := tt.Week()
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)

	header := []string{"Saat"}
	for _, row := range grid.Rows {
		header = append(header, row.DayName)
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))

	for i, col := range grid.Columns {
		line := []string{fmt.Sprintf("%s (%s / Cuma %s)", col.Label, col.MondayToThursday, col.Friday)}
		for _, row := range grid.Rows {
			line = append(line, row.Cells[i].DisplayName)
		}
		fmt.Fprintln(w, strings.Join(line, "\t"))
	}
	return w.Flush()
}
