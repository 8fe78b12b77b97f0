package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var flags completeFlags

	cmd := &cobra.Command{
		Use:   "complete [question]",
		Short: "Send one completion request through the adapter",
		Long: `Send a single request to the dummy, upstream or AGI backend selected by
--model and print the normalized completion result as JSON.

AGI models take --system as the instruction and the argument as the question.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runComplete(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), flags, args[0])
		},
	}

	addCompleteFlags(cmd, &flags)
	return cmd
}
