package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon and playback status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}

			status, err := client.Status(cmd.Context())
			if err != nil {
				if strings.Contains(err.Error(), "connection refused") {
					return fmt.Errorf("daemon is not running; start it with `jukebridged`")
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Daemon:      %s\n", runningLabel(status.Bridge.Running))
			fmt.Fprintf(out, "State:       %s\n", status.Bridge.State)
			if np := status.Bridge.NowPlaying; np != nil {
				fmt.Fprintf(out, "Now playing: %s (requested by %s, %ds remaining)\n",
					np.Title, np.RequestedBy, np.RemainingSeconds)
			}
			fmt.Fprintf(out, "Queued:      %d\n", status.Bridge.QueueLength)
			if !status.Bridge.LastCycleAt.IsZero() {
				fmt.Fprintf(out, "Last cycle:  %s\n", status.Bridge.LastCycleAt.Local().Format("2006-01-02 15:04:05"))
			}
			fmt.Fprintf(out, "Log file:    %s\n", status.LogPath)
			return nil
		},
	}
}

func runningLabel(running bool) string {
	if running {
		return "running"
	}
	return "stopped"
}
