package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"agilesense.ai/services/common/id"
	"agilesense.ai/services/internal/model"
	"agilesense.ai/services/internal/service"
	"agilesense.ai/services/internal/store"
)

var (
	pendingEmail       string
	pendingCategory    string
	pendingTitle       string
	pendingDescription string
	pendingPriority    string
	pendingDueInDays   int
)

var addPendingCmd = &cobra.Command{
	Use:   "add-pending",
	Short: "Attach a pending issue to a developer profile",
	Long: `Adds a pending issue copy directly to a developer's profile without
creating an issue document. Useful for exercising the pending issue views.`,
	RunE: runAddPending,
}

func init() {
	addPendingCmd.Flags().StringVar(&pendingEmail, "email", "", "developer email")
	addPendingCmd.Flags().StringVar(&pendingCategory, "category", "", "issue category")
	addPendingCmd.Flags().StringVar(&pendingTitle, "title", "", "issue title")
	addPendingCmd.Flags().StringVar(&pendingDescription, "description", "", "issue description")
	addPendingCmd.Flags().StringVar(&pendingPriority, "priority", string(model.PriorityMedium), "low, medium, high or critical")
	addPendingCmd.Flags().IntVar(&pendingDueInDays, "due-in-days", 0, "due date offset in days (0 for none)")
	for _, name := range []string{"email", "category", "title"} {
		_ = addPendingCmd.MarkFlagRequired(name)
	}
}

func runAddPending(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	priority := model.Priority(pendingPriority)
	if !priority.Valid() {
		return fmt.Errorf("invalid priority %q", pendingPriority)
	}
	if err := id.Init(1); err != nil {
		return fmt.Errorf("initializing id generator: %w", err)
	}

	now := time.Now().UTC()
	issue := model.PendingIssue{
		ID:          id.NewIssueID(now),
		Title:       pendingTitle,
		Description: pendingDescription,
		Category:    pendingCategory,
		Status:      string(model.IssueStatusPending),
		Priority:    priority,
		CreatedAt:   &now,
	}
	if pendingDueInDays > 0 {
		due := now.AddDate(0, 0, pendingDueInDays)
		issue.DueDate = &due
	}

	client, err := connectStore(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	developers := service.NewDeveloperService(store.NewStores(client, nil).Developers(), nil, nil)
	profile, err := developers.AssignPending(ctx, pendingEmail, issue)
	if err != nil {
		return err
	}

	fmt.Printf("Added %s to %s (%s)\n", issue.ID, profile.Email, issue.Category)
	fmt.Printf("  Pending in %s: %d\n", issue.Category, len(profile.PendingIssues[issue.Category]))
	return nil
}
