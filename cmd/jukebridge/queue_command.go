package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"jukebridge/internal/queuesync"
	"jukebridge/internal/storage"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Show the shared playback queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store := storage.NewConfiguredClient(cfg)
			obj, err := store.Get(cmd.Context(), cfg.Storage.QueueKey)
			if err != nil {
				return fmt.Errorf("read queue object: %w", err)
			}

			var entries []queuesync.Entry
			if obj != nil {
				if decoded, ok := queuesync.DecodeValue(obj.Value); ok {
					entries = decoded
				}
			}

			out := cmd.OutOrStdout()
			if asJSON {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(entries)
			}

			if len(entries) == 0 {
				fmt.Fprintln(out, "Queue is empty")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for i, entry := range entries {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					entry.Title,
					entry.RequestedBy,
					formatDuration(entry.DurationSeconds),
					entry.URL,
				})
			}
			fmt.Fprintln(out, renderQueueTable(rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the queue as JSON")
	return cmd
}

func formatDuration(seconds int) string {
	if seconds <= 0 {
		return "0s"
	}
	return (time.Duration(seconds) * time.Second).String()
}
