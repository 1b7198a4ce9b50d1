package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear cached snapshots and local progress state (logout)",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.cache.Clear(cmd.Context()); err != nil {
			return fmt.Errorf("clear local state: %w", err)
		}
		fmt.Println("Cleared cached snapshots, accuracy cache, and streak record.")
		return nil
	},
}
