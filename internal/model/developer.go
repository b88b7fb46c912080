package model

import "time"

// Categories the issue classifier is trained on. Profiles may carry other
// categories; lookups for unknown ones score zero.
var Categories = []string{
	"API",
	"Authentication",
	"Database",
	"DevOps",
	"Documentation",
	"Performance",
	"Security",
	"Testing",
	"UI",
}

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// DeveloperProfile is keyed by email. Pending and resolved issues are
// denormalized copies of Issue documents, grouped by category.
type DeveloperProfile struct {
	Email            string                     `json:"email"`
	Name             string                     `json:"name"`
	Expertise        map[string]float64         `json:"expertise"`
	JiraIssuesSolved map[string]int             `json:"jiraIssuesSolved"`
	GithubCommits    map[string]int             `json:"githubCommits"`
	PendingIssues    map[string][]PendingIssue  `json:"pendingIssues"`
	ResolvedIssues   map[string][]ResolvedIssue `json:"resolvedIssues"`
	CreatedAt        time.Time                  `json:"createdAt,omitzero"`
	UpdatedAt        time.Time                  `json:"updatedAt,omitzero"`
}

type PendingIssue struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Status      string     `json:"status"`
	Priority    Priority   `json:"priority"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	SubmittedBy *string    `json:"submittedBy,omitempty"`
}

type ResolvedIssue struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Priority    Priority   `json:"priority"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	ResolvedAt  *time.Time `json:"resolvedAt,omitempty"`
	SubmittedBy *string    `json:"submittedBy,omitempty"`
}

// NewDeveloperProfile returns a profile with every known category zeroed.
func NewDeveloperProfile(email, name string) *DeveloperProfile {
	p := &DeveloperProfile{
		Email:            email,
		Name:             name,
		Expertise:        make(map[string]float64, len(Categories)),
		JiraIssuesSolved: make(map[string]int, len(Categories)),
		GithubCommits:    make(map[string]int, len(Categories)),
	}
	for _, c := range Categories {
		p.Expertise[c] = 0
		p.JiraIssuesSolved[c] = 0
		p.GithubCommits[c] = 0
	}
	p.Normalize()
	return p
}

// Normalize replaces nil maps so callers can index without checks.
func (p *DeveloperProfile) Normalize() {
	if p.Expertise == nil {
		p.Expertise = map[string]float64{}
	}
	if p.JiraIssuesSolved == nil {
		p.JiraIssuesSolved = map[string]int{}
	}
	if p.GithubCommits == nil {
		p.GithubCommits = map[string]int{}
	}
	if p.PendingIssues == nil {
		p.PendingIssues = map[string][]PendingIssue{}
	}
	if p.ResolvedIssues == nil {
		p.ResolvedIssues = map[string][]ResolvedIssue{}
	}
}

func (p *DeveloperProfile) HasPending(category, issueID string) bool {
	for _, pi := range p.PendingIssues[category] {
		if pi.ID == issueID {
			return true
		}
	}
	return false
}

// AddPending appends issue to its category unless an issue with the same id
// is already there. It reports whether the profile changed.
func (p *DeveloperProfile) AddPending(issue PendingIssue) bool {
	p.Normalize()
	if p.HasPending(issue.Category, issue.ID) {
		return false
	}
	p.PendingIssues[issue.Category] = append(p.PendingIssues[issue.Category], issue)
	return true
}

// RemovePending drops the pending issue with issueID from category and
// returns it.
func (p *DeveloperProfile) RemovePending(category, issueID string) (PendingIssue, bool) {
	list := p.PendingIssues[category]
	for i, pi := range list {
		if pi.ID != issueID {
			continue
		}
		kept := make([]PendingIssue, 0, len(list)-1)
		kept = append(kept, list[:i]...)
		kept = append(kept, list[i+1:]...)
		p.PendingIssues[category] = kept
		return pi, true
	}
	return PendingIssue{}, false
}

// MovePendingToResolved removes the pending copy and records a resolved one.
// A resolved entry with the same id is never duplicated.
func (p *DeveloperProfile) MovePendingToResolved(category, issueID string, resolvedAt time.Time) (ResolvedIssue, bool) {
	p.Normalize()
	pi, ok := p.RemovePending(category, issueID)
	if !ok {
		return ResolvedIssue{}, false
	}

	priority := pi.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	resolved := ResolvedIssue{
		ID:          pi.ID,
		Title:       pi.Title,
		Description: pi.Description,
		Category:    pi.Category,
		Priority:    priority,
		CreatedAt:   pi.CreatedAt,
		ResolvedAt:  &resolvedAt,
		SubmittedBy: pi.SubmittedBy,
	}
	for _, ri := range p.ResolvedIssues[category] {
		if ri.ID == issueID {
			return ri, true
		}
	}
	p.ResolvedIssues[category] = append(p.ResolvedIssues[category], resolved)
	return resolved, true
}
