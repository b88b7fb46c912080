package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"agilesense.ai/services/internal/model"
	"agilesense.ai/services/internal/service"
	"agilesense.ai/services/internal/store"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Upsert developer profiles",
	Long: `Upserts developer profiles from a YAML file. Without --file a built-in
set of sample developers is written.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "YAML file with a top-level 'developers' list")
}

type profileFixture struct {
	Email            string             `yaml:"email"`
	Name             string             `yaml:"name"`
	Expertise        map[string]float64 `yaml:"expertise"`
	JiraIssuesSolved map[string]int     `yaml:"jiraIssuesSolved"`
	GithubCommits    map[string]int     `yaml:"githubCommits"`
}

type fixtureFile struct {
	Developers []profileFixture `yaml:"developers"`
}

// parseProfiles decodes a fixture file. Categories missing from a profile are
// zero-filled; expertise scores outside [0,1] are rejected.
func parseProfiles(data []byte) ([]*model.DeveloperProfile, error) {
	var f fixtureFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}

	profiles := make([]*model.DeveloperProfile, 0, len(f.Developers))
	for i, d := range f.Developers {
		email := strings.TrimSpace(d.Email)
		if email == "" {
			return nil, fmt.Errorf("developer %d: email is required", i)
		}
		p := model.NewDeveloperProfile(email, d.Name)
		// Pending and resolved lists stay nil so upserts keep existing copies.
		p.PendingIssues = nil
		p.ResolvedIssues = nil
		for c, v := range d.Expertise {
			if v < 0 || v > 1 {
				return nil, fmt.Errorf("developer %s: expertise %s=%.2f out of range", email, c, v)
			}
			p.Expertise[c] = v
		}
		for c, v := range d.JiraIssuesSolved {
			if v < 0 {
				return nil, fmt.Errorf("developer %s: jiraIssuesSolved %s is negative", email, c)
			}
			p.JiraIssuesSolved[c] = v
		}
		for c, v := range d.GithubCommits {
			if v < 0 {
				return nil, fmt.Errorf("developer %s: githubCommits %s is negative", email, c)
			}
			p.GithubCommits[c] = v
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	data := []byte(sampleProfiles)
	if seedFile != "" {
		var err error
		if data, err = os.ReadFile(seedFile); err != nil {
			return fmt.Errorf("reading %s: %w", seedFile, err)
		}
	}
	profiles, err := parseProfiles(data)
	if err != nil {
		return err
	}

	client, err := connectStore(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	developers := service.NewDeveloperService(store.NewStores(client, nil).Developers(), nil, nil)
	for _, p := range profiles {
		if _, err := developers.Upsert(ctx, p); err != nil {
			return err
		}
		fmt.Printf("  ✅ %s (%s)\n", p.Email, p.Name)
	}
	fmt.Printf("\nSeeded %d developer profiles\n", len(profiles))
	return nil
}

const sampleProfiles = `
developers:
  - email: alice@example.com
    name: Alice Perera
    expertise: {API: 0.82, Authentication: 0.31, Database: 0.65, DevOps: 0.22, Documentation: 0.99, Performance: 0.79, Security: 0.32, Testing: 0.65, UI: 0.87}
    jiraIssuesSolved: {API: 23, Authentication: 87, Database: 98, DevOps: 23, Documentation: 77, Performance: 88, Security: 76, Testing: 55, UI: 87}
    githubCommits: {API: 82, Authentication: 31, Database: 65, DevOps: 22, Documentation: 99, Performance: 79, Security: 32, Testing: 65, UI: 87}
  - email: bob@example.com
    name: Bob Smith
    expertise: {API: 0.95, Authentication: 0.75, Database: 0.92, DevOps: 0.45, Documentation: 0.40, Performance: 0.80, Security: 0.60, Testing: 0.70, UI: 0.30}
    jiraIssuesSolved: {API: 95, Authentication: 40, Database: 88, DevOps: 20, Documentation: 12, Performance: 60, Security: 35, Testing: 42, UI: 10}
    githubCommits: {API: 120, Authentication: 55, Database: 110, DevOps: 30, Documentation: 15, Performance: 70, Security: 40, Testing: 50, UI: 12}
  - email: charlie@example.com
    name: Charlie Brown
    expertise: {API: 0.60, Authentication: 0.97, Database: 0.45, DevOps: 0.55, Documentation: 0.35, Performance: 0.50, Security: 0.93, Testing: 0.60, UI: 0.25}
    jiraIssuesSolved: {API: 30, Authentication: 92, Database: 20, DevOps: 25, Documentation: 10, Performance: 22, Security: 85, Testing: 33, UI: 8}
    githubCommits: {API: 45, Authentication: 130, Database: 28, DevOps: 40, Documentation: 12, Performance: 30, Security: 115, Testing: 44, UI: 9}
`
