package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingua/internal/streak"
)

var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Inspect or update the daily streak",
}

var streakAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add practice minutes to today and apply the streak transition",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		minutes, _ := cmd.Flags().GetInt("minutes")
		if minutes < 0 {
			return fmt.Errorf("minutes must be non-negative")
		}

		svc := newStreakService(d)
		res, err := svc.Update(cmd.Context(), minutes)
		if err != nil {
			return err
		}

		switch {
		case res.Increased:
			fmt.Println(successStyle.Render(res.Message))
		case res.Broken:
			fmt.Println(errorStyle.Render(res.Message))
		default:
			fmt.Println(valueStyle.Render(res.Message))
		}
		if res.XPBonus > 0 {
			fmt.Println(kv("Streak bonus", fmt.Sprintf("+%d XP", res.XPBonus)))
		}
		printRecord(res.Record)
		return nil
	},
}

var streakStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the streak record and today's risk",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		svc := newStreakService(d)
		rec, err := svc.Current(cmd.Context())
		if err != nil {
			return err
		}
		printRecord(rec)

		risk, err := svc.Risk(cmd.Context())
		if err != nil {
			return err
		}
		if risk.AtRisk {
			fmt.Println(warnStyle.Render(risk.Message))
		} else {
			fmt.Println(labelStyle.Render(risk.Message))
		}
		return nil
	},
}

var streakRemindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Run hourly streak-risk reminders until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		svc := newStreakService(d)
		reminder := streak.NewReminder(svc, d.cfg.Reminder, func(r streak.Risk) {
			fmt.Println(warnStyle.Render(r.Message))
		})
		if err := reminder.Start(); err != nil {
			return err
		}
		defer reminder.Stop()

		fmt.Println(labelStyle.Render(fmt.Sprintf(
			"Checking streak risk hourly between %02d:00 and %02d:00 UTC. Ctrl-C to stop.",
			d.cfg.Reminder.StartHour, d.cfg.Reminder.EndHour)))

		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt)
		defer signal.Stop(interrupt)
		<-interrupt
		return nil
	},
}

func init() {
	streakAddCmd.Flags().Int("minutes", 0, "Practice minutes to add to today")
	_ = streakAddCmd.MarkFlagRequired("minutes")

	streakCmd.AddCommand(streakAddCmd)
	streakCmd.AddCommand(streakStatusCmd)
	streakCmd.AddCommand(streakRemindCmd)
}

// newStreakService wires the streak service; the backend mirror is
// attached only when a base URL is configured.
func newStreakService(d *deps) *streak.Service {
	var mirror streak.Mirror
	if d.cfg.BaseURL != "" {
		mirror = d.client
	}
	return streak.NewService(d.store.Local(), mirror, d.cfg.Tier, d.clock)
}

func printRecord(rec streak.Record) {
	fmt.Println(kv("Current streak", fmt.Sprintf("%d days", rec.Current)))
	fmt.Println(kv("Longest streak", fmt.Sprintf("%d days", rec.Longest)))
	fmt.Println(kv("Today", fmt.Sprintf("%d minutes", rec.TodayMinutes)))
	if rec.LastActivityDate != nil {
		fmt.Println(kv("Last goal met", rec.LastActivityDate.Format("2006-01-02")))
	}
}
