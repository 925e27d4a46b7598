package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sabq4org/consensus/internal/config"
)

func newInitConfigCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init-config",
		Short: "Write a sample configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				if _, err := os.Stat(configPath); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
				}
			}
			if err := config.GenerateSample(configPath); err != nil {
				return fmt.Errorf("writing sample config: %w", err)
			}
			fmt.Printf("Wrote %s\n", configPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	return cmd
}
