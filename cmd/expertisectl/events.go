package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"agilesense.ai/services/internal/queue"
)

var eventsCount int64

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show the most recent issue lifecycle events",
	RunE:  runEvents,
}

func init() {
	eventsCmd.Flags().Int64VarP(&eventsCount, "count", "n", 20, "number of events to show")
}

func runEvents(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if !cfg.Events.Enabled() {
		return fmt.Errorf("REDIS_URL is not set")
	}
	if eventsCount <= 0 {
		return fmt.Errorf("--count must be positive")
	}

	client, err := queue.NewRedisClient(ctx, cfg.Events.RedisURL)
	if err != nil {
		return err
	}
	defer client.Close()

	events, err := queue.NewReader(client, cfg.Events.RedisStream).Latest(ctx, eventsCount)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Printf("No events on %s\n", cfg.Events.RedisStream)
		return nil
	}
	for _, e := range events {
		fmt.Println(formatEvent(e))
	}
	return nil
}

func formatEvent(e queue.StoredEvent) string {
	dev := "-"
	if e.Event.DeveloperEmail != nil {
		dev = *e.Event.DeveloperEmail
	}
	ts := "-"
	if !e.Event.OccurredAt.IsZero() {
		ts = e.Event.OccurredAt.Format("2006-01-02 15:04:05")
	}
	return fmt.Sprintf("%s  %-19s %-17s %-32s %-14s %-11s %s",
		e.ID, ts, e.Event.Type, e.Event.IssueID, e.Event.Category, e.Event.Status, dev)
}
