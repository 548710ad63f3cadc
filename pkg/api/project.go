package api

import "github.com/shopspring/decimal"

// Project is a shared ledger and its participants.
type Project struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Description  string         `json:"description,omitempty"`
	CreatedBy    string         `json:"createdBy,omitempty"`
	CreatedAt    int64          `json:"createdAt"`
	Participants []*Participant `json:"participants"`
}

// Participant is a user's membership in a project.
type Participant struct {
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Active   bool   `json:"active"`
	JoinedAt int64  `json:"joinedAt"`
}

// CreateProjectRequest creates a project with the caller as first participant.
type CreateProjectRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`

	// ParticipantNames are added as active participants besides the caller.
	ParticipantNames []string `json:"participantNames" validate:"dive,required"`
}

// CreateProjectResponse carries the new project.
type CreateProjectResponse struct {
	Project *Project `json:"project"`
}

// GetProjectRequest fetches one project.
type GetProjectRequest struct {
	ProjectID string `json:"projectId" validate:"required"`
}

// GetProjectResponse carries the requested project.
type GetProjectResponse struct {
	Project *Project `json:"project"`
}

// UpdateProjectRequest renames a project or changes its description.
type UpdateProjectRequest struct {
	ProjectID   string `json:"projectId" validate:"required"`
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// UpdateProjectResponse carries the updated project.
type UpdateProjectResponse struct {
	Project *Project `json:"project"`
}

// ListProjectsRequest lists the caller's active projects.
type ListProjectsRequest struct{}

// ListProjectsResponse carries the caller's projects, newest first.
type ListProjectsResponse struct {
	Projects []*Project `json:"projects"`
}

// AddParticipantRequest adds a user, by name, to a project.
type AddParticipantRequest struct {
	ProjectID string `json:"projectId" validate:"required"`
	UserName  string `json:"userName" validate:"required"`
}

// AddParticipantResponse carries the updated project.
type AddParticipantResponse struct {
	Project *Project `json:"project"`
}

// RemoveParticipantRequest deactivates a participant.
type RemoveParticipantRequest struct {
	ProjectID string `json:"projectId" validate:"required"`
	UserID    string `json:"userId" validate:"required"`
}

// RemoveParticipantResponse carries the updated project.
type RemoveParticipantResponse struct {
	// Project is nil when ProjectDeleted is set.
	Project *Project `json:"project,omitempty"`

	// ProjectDeleted reports that the removal left no active participant
	// and the project was deleted.
	ProjectDeleted bool `json:"projectDeleted"`
}

// GetProjectStatsRequest asks for the spending summary of a project.
type GetProjectStatsRequest struct {
	ProjectID string `json:"projectId" validate:"required"`
}

// PayerSpending is the amount one payer laid out.
type PayerSpending struct {
	UserID string          `json:"userId"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// GetProjectStatsResponse summarizes spending in a project.
type GetProjectStatsResponse struct {
	TotalSpending decimal.Decimal  `json:"totalSpending"`
	ByPayer       []*PayerSpending `json:"byPayer"`

	// Currency is the ISO 4217 code amounts are denominated in.
	Currency string `json:"currency"`
}
