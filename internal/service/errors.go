package service

import "errors"

var (
	ErrIssueNotFound        = errors.New("issue not found")
	ErrDeveloperNotFound    = errors.New("developer not found")
	ErrPendingIssueNotFound = errors.New("pending issue not found")
	ErrInvalidTransition    = errors.New("invalid issue status transition")
	ErrNotAssignee          = errors.New("developer is not assigned to this issue")
	ErrAnalysisLogDisabled  = errors.New("analysis history is not configured")
)
