package main

import (
	"github.com/spf13/cobra"
)

func newFactCheckCmd() *cobra.Command {
	var claimContext string

	cmd := &cobra.Command{
		Use:   "factcheck <claim>",
		Short: "Check a claim against the provider panel",
		Long:  "Dispatches the claim to three independent AI providers and reduces their verdicts by majority vote.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFactCheck(cmd, args[0], claimContext)
		},
	}

	cmd.Flags().StringVar(&claimContext, "context", "", "Additional context for the claim")

	return cmd
}

func runFactCheck(cmd *cobra.Command, claim, claimContext string) error {
	engine, cleanup, err := buildEngine()
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := engine.CheckFactAccuracy(cmd.Context(), claim, claimContext)
	if err != nil {
		return err
	}

	return printJSON(result)
}
