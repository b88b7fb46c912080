package model

import "time"

type IssueStatus string

const (
	IssueStatusPending    IssueStatus = "pending"
	IssueStatusAssigned   IssueStatus = "assigned"
	IssueStatusInProgress IssueStatus = "in_progress"
	IssueStatusDone       IssueStatus = "done"
	IssueStatusResolved   IssueStatus = "resolved"
)

func (s IssueStatus) Valid() bool {
	switch s {
	case IssueStatusPending, IssueStatusAssigned, IssueStatusInProgress, IssueStatusDone, IssueStatusResolved:
		return true
	}
	return false
}

// Issue is the primary issue document. TopExperts is captured when the issue
// is created and never refreshed.
type Issue struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	Category        string      `json:"category"`
	Status          IssueStatus `json:"status"`
	Priority        Priority    `json:"priority"`
	SubmittedBy     string      `json:"submittedBy"`
	SubmittedByName *string     `json:"submittedByName,omitempty"`
	AssignedTo      *string     `json:"assignedTo,omitempty"`
	AssignedToName  *string     `json:"assignedToName,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
	AssignedAt      *time.Time  `json:"assignedAt,omitempty"`
	ResolvedAt      *time.Time  `json:"resolvedAt,omitempty"`
	TopExperts      []TopExpert `json:"topExperts"`
}

type TopExpert struct {
	Email            string  `json:"email"`
	Name             string  `json:"name"`
	ExpertiseScore   float64 `json:"expertiseScore"`
	JiraIssuesSolved int     `json:"jiraIssuesSolved"`
	GithubCommits    int     `json:"githubCommits"`
	Score            float64 `json:"score"`
}

func (i *Issue) IsAssignee(email string) bool {
	return i.AssignedTo != nil && *i.AssignedTo == email
}

// ToPending builds the developer-side copy of an assigned issue.
func (i *Issue) ToPending(status IssueStatus) PendingIssue {
	createdAt := i.CreatedAt
	submittedBy := i.SubmittedBy
	return PendingIssue{
		ID:          i.ID,
		Title:       i.Title,
		Description: i.Description,
		Category:    i.Category,
		Status:      string(status),
		Priority:    i.Priority,
		CreatedAt:   &createdAt,
		SubmittedBy: &submittedBy,
	}
}
