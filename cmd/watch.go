package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingua/internal/progress"
)

var watchCmd = &cobra.Command{
	Use:   "watch <user-id>",
	Short: "Poll for the next backend-triggered progress update",
	Long: "Starts one bounded polling cycle for the given user and prints " +
		"the first significant change (XP total, progress percentage, " +
		"accuracy, or streak), then exits.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()
		if err := d.requireBackend(); err != nil {
			return err
		}

		userID := args[0]
		listener := progress.Listener{
			OnProgressUpdate: func(u progress.Update) {
				fmt.Println(successStyle.Render("Progress update"))
				fmt.Println(kv("XP total", fmt.Sprintf("%d (+%d)", u.Level.Total, u.Gained)))
				fmt.Println(kv("Level", fmt.Sprintf("%d (%.0f%%)", u.Level.CurrentLevel, u.Level.ProgressPercentage)))
				fmt.Println(kv("Accuracy", fmt.Sprintf("%.1f%%", u.Accuracy.Overall)))
				fmt.Println(kv("Streak", fmt.Sprintf("%d days", u.Streak)))
			},
			OnLevelUp: func(lu progress.LevelUp) {
				fmt.Println(successStyle.Render(fmt.Sprintf("Level up! %d → %d (+%d XP)", lu.OldLevel, lu.NewLevel, lu.XPGained)))
			},
			OnError: func(err error) {
				fmt.Fprintln(os.Stderr, warnStyle.Render(fmt.Sprintf("poll failed, retrying: %v", err)))
			},
		}

		handle := d.engine.StartListening(userID, listener)
		fmt.Println(labelStyle.Render("Watching for a progress update for " + userID + "..."))

		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt)
		defer signal.Stop(interrupt)

		select {
		case outcome := <-handle.Done():
			switch outcome {
			case progress.OutcomeCompleted:
				// Update already printed by the listener.
			case progress.OutcomeTimedOut:
				fmt.Println(warnStyle.Render("No change detected before the polling window closed."))
			default:
				fmt.Println(labelStyle.Render("Polling stopped."))
			}
		case <-interrupt:
			d.engine.StopListening(userID)
			fmt.Println(labelStyle.Render("Polling stopped."))
		}
		return nil
	},
}
