package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"agilesense.ai/services/common/arangodb"
	"agilesense.ai/services/internal/model"
	"agilesense.ai/services/internal/service"
	"agilesense.ai/services/internal/store"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the document store and summarize developer profiles",
	RunE:  runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	client, err := connectStore(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	fmt.Printf("🔍 Expertise store: %s\n", cfg.ArangoDB.Database)
	fmt.Printf("%s\n", strings.Repeat("═", 50))

	if err := client.Ping(ctx); err != nil {
		fmt.Printf("  Status: ❌ Unreachable (%v)\n", err)
		return err
	}
	fmt.Printf("  Status: ✅ Connected\n")

	fmt.Printf("\n📦 Collections:\n")
	for _, coll := range []string{arangodb.CollectionDeveloperProfiles, arangodb.CollectionIssues} {
		n, err := client.Count(ctx, coll)
		if err != nil {
			fmt.Printf("  %s: ❌ %v\n", coll, err)
			continue
		}
		fmt.Printf("  %s: %d\n", coll, n)
	}

	developers := service.NewDeveloperService(store.NewStores(client, nil).Developers(), nil, nil)
	profiles, err := developers.List(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("\n👥 Developers:\n")
	if len(profiles) == 0 {
		fmt.Printf("  (none, run 'expertisectl seed')\n")
		return nil
	}
	for _, p := range profiles {
		fmt.Println(summarizeProfile(p))
	}
	return nil
}

// summarizeProfile renders one line per developer with their strongest
// category and issue counts.
func summarizeProfile(p model.DeveloperProfile) string {
	top, score := "-", 0.0
	categories := make([]string, 0, len(p.Expertise))
	for c := range p.Expertise {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	for _, c := range categories {
		if p.Expertise[c] > score {
			top, score = c, p.Expertise[c]
		}
	}

	pending, resolved := 0, 0
	for _, issues := range p.PendingIssues {
		pending += len(issues)
	}
	for _, issues := range p.ResolvedIssues {
		resolved += len(issues)
	}

	return fmt.Sprintf("  %-28s %-18s top=%s (%.2f) pending=%d resolved=%d",
		p.Email, p.Name, top, score, pending, resolved)
}
