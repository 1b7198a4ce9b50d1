package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingua/internal/progress"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Fetch the current progress snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()
		if err := d.requireBackend(); err != nil {
			return err
		}

		force, _ := cmd.Flags().GetBool("force")
		dashboard, _ := cmd.Flags().GetBool("dashboard")
		ctx := cmd.Context()

		if dashboard {
			dash, err := d.cache.Dashboard(ctx, force)
			if err != nil {
				return fmt.Errorf("fetch dashboard: %w", err)
			}
			printSnapshot(dash.Snapshot)
			fmt.Println(kv("Practice days", fmt.Sprintf("%d", dash.TotalPracticeDays)))
			for _, day := range dash.WeeklyXP {
				fmt.Println(kv("  "+day.Date, fmt.Sprintf("%d XP", day.XP)))
			}
			return nil
		}

		snap, err := d.cache.Realtime(ctx, force)
		if err != nil {
			return fmt.Errorf("fetch realtime progress: %w", err)
		}
		printSnapshot(*snap)
		return nil
	},
}

func init() {
	progressCmd.Flags().Bool("force", false, "Bypass the freshness cache")
	progressCmd.Flags().Bool("dashboard", false, "Fetch the heavier dashboard snapshot")
}

func printSnapshot(snap progress.Snapshot) {
	level := progress.NormalizeXP(snap.XP)
	fmt.Println(kv("XP total", fmt.Sprintf("%d", level.Total)))
	fmt.Println(kv("Level", fmt.Sprintf("%d — %d/%d XP (%.0f%%)",
		level.CurrentLevel, level.XPIntoLevel, level.XPRequiredForLevel, level.ProgressPercentage)))
	fmt.Println(kv("Accuracy", fmt.Sprintf("%.1f%%", snap.Accuracy.Overall)))
	fmt.Println(kv("Streak", fmt.Sprintf("%d days", snap.Streak.Current)))
	fmt.Println(kv("Messages", fmt.Sprintf("%d", snap.Stats.TotalMessages)))
	fmt.Println(kv("Minutes", fmt.Sprintf("%d", snap.Stats.TotalMinutes)))
}
