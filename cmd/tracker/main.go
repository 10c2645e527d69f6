package main

import (
	"os"

	"github.com/forecast-ops/job-tracker/internal/cli"
	"github.com/spf13/cobra"
)

func main() {
	command := NewTrackerCtlCommand()
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}

func NewTrackerCtlCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tracker [flags] [options]",
		Short: "tracker manages forecast jobs and pipelines.",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
			os.Exit(1)
		},
	}
	cmd.AddCommand(cli.NewCmdGet())
	cmd.AddCommand(cli.NewCmdCreate())
	cmd.AddCommand(cli.NewCmdDelete())
	cmd.AddCommand(cli.NewCmdRetry())
	cmd.AddCommand(cli.NewCmdWait())
	cmd.AddCommand(cli.NewCmdConfig())
	cmd.AddCommand(cli.NewCmdVersion())

	return cmd
}
