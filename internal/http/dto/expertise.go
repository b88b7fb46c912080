package dto

import (
	"time"

	"agilesense.ai/services/internal/model"
)

type IssuePredictionRequest struct {
	Title           *string `json:"title,omitempty"`
	Description     string  `json:"description" binding:"required"`
	SubmittedBy     *string `json:"submittedBy,omitempty" binding:"omitempty,email"`
	SubmittedByName *string `json:"submittedByName,omitempty"`
}

type IssuePredictionResponse struct {
	Category      string             `json:"category"`
	Probabilities map[string]float64 `json:"probabilities,omitempty"`
}

type IssueCreateRequest struct {
	Title           string         `json:"title" binding:"required"`
	Description     string         `json:"description" binding:"required"`
	SubmittedBy     string         `json:"submittedBy" binding:"required,email"`
	SubmittedByName *string        `json:"submittedByName,omitempty"`
	Priority        model.Priority `json:"priority" binding:"omitempty,oneof=low medium high critical"`
}

type IssueListResponse struct {
	Issues []model.Issue `json:"issues"`
	Total  int           `json:"total"`
}

type IssueAssignRequest struct {
	IssueID        string `json:"issueId" binding:"required"`
	DeveloperEmail string `json:"developerEmail" binding:"required,email"`
	DeveloperName  string `json:"developerName" binding:"required"`
}

// IssueActorRequest identifies the developer driving a transition.
type IssueActorRequest struct {
	DeveloperEmail string `json:"developerEmail" binding:"required,email"`
}

type DeveloperProfileRequest struct {
	Email            string                           `json:"email" binding:"required,email"`
	Name             string                           `json:"name" binding:"required"`
	Expertise        map[string]float64               `json:"expertise" binding:"dive,gte=0,lte=1"`
	JiraIssuesSolved map[string]int                   `json:"jiraIssuesSolved" binding:"dive,gte=0"`
	GithubCommits    map[string]int                   `json:"githubCommits" binding:"dive,gte=0"`
	PendingIssues    map[string][]model.PendingIssue  `json:"pendingIssues,omitempty"`
	ResolvedIssues   map[string][]model.ResolvedIssue `json:"resolvedIssues,omitempty"`
}

// ToModel fills every known category the request leaves out with zero.
func (r DeveloperProfileRequest) ToModel() *model.DeveloperProfile {
	p := model.NewDeveloperProfile(r.Email, r.Name)
	for k, v := range r.Expertise {
		p.Expertise[k] = v
	}
	for k, v := range r.JiraIssuesSolved {
		p.JiraIssuesSolved[k] = v
	}
	for k, v := range r.GithubCommits {
		p.GithubCommits[k] = v
	}
	// nil leaves stored issue lists untouched on upsert
	p.PendingIssues = r.PendingIssues
	p.ResolvedIssues = r.ResolvedIssues
	return p
}

type DeveloperProfileDetailResponse struct {
	Profile                  *model.DeveloperProfile          `json:"profile"`
	PendingIssuesByCategory  map[string][]model.PendingIssue  `json:"pendingIssuesByCategory"`
	ResolvedIssuesByCategory map[string][]model.ResolvedIssue `json:"resolvedIssuesByCategory"`
}

type PendingIssueRequest struct {
	ID          string         `json:"id" binding:"required"`
	Title       string         `json:"title" binding:"required"`
	Description string         `json:"description"`
	Category    string         `json:"category" binding:"required"`
	Status      string         `json:"status"`
	Priority    model.Priority `json:"priority" binding:"omitempty,oneof=low medium high critical"`
	CreatedAt   *time.Time     `json:"createdAt,omitempty"`
	DueDate     *time.Time     `json:"dueDate,omitempty"`
	SubmittedBy *string        `json:"submittedBy,omitempty"`
}

func (r PendingIssueRequest) ToModel() model.PendingIssue {
	return model.PendingIssue{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Status:      r.Status,
		Priority:    r.Priority,
		CreatedAt:   r.CreatedAt,
		DueDate:     r.DueDate,
		SubmittedBy: r.SubmittedBy,
	}
}

type AssignIssueRequest struct {
	DeveloperEmail string              `json:"developerEmail" binding:"required,email"`
	Issue          PendingIssueRequest `json:"issue" binding:"required"`
}

type ResolveIssueRequest struct {
	DeveloperEmail string     `json:"developerEmail" binding:"required,email"`
	Category       string     `json:"category" binding:"required"`
	IssueID        string     `json:"issueId" binding:"required"`
	ResolvedAt     *time.Time `json:"resolvedAt,omitempty"`
}

type RecommendedDeveloper struct {
	model.DeveloperProfile
	Score float64 `json:"score"`
}

type RecommendationResponse struct {
	Category   string                 `json:"category"`
	Developers []RecommendedDeveloper `json:"developers"`
}

type ExpertiseHealthResponse struct {
	Status       string          `json:"status"`
	Service      string          `json:"service"`
	ModelsLoaded map[string]bool `json:"models_loaded"`
	Store        string          `json:"store"`
}
