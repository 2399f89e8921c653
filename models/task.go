package models

import "time"

// Priority is the urgency level of a task. Values are ordered: when two
// conflicting sides disagree on priority, the merger keeps the one with the
// higher severity rank.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Rank returns the numeric severity of the priority. Unknown values rank
// below PriorityLow so corrupted input never outranks a real priority.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityUrgent:
		return 4
	default:
		return 0
	}
}

// Task represents a unit of work shared across the devices of an
// organization. Tasks are the most heavily edited entity type and carry the
// richest merge rules (field precedence, tag unions, comment merging).
type Task struct {
	// ID is the entity identifier, unique within the organization.
	ID string `json:"id"`

	// OrganizationID scopes the task to a single tenant.
	OrganizationID int64 `json:"organization_id"`

	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	// Status is a free-form workflow state (e.g. "open", "in_progress",
	// "done"); workflow validation lives in the calling layer.
	Status string `json:"status"`

	Priority Priority `json:"priority"`

	DueDate   *time.Time `json:"due_date,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`

	// AssigneeID is the user currently responsible for the task.
	// Zero means unassigned.
	AssigneeID int64 `json:"assignee_id,omitempty"`

	Tags []string `json:"tags,omitempty"`

	// Comments are append-mostly: both sides of a conflict may add new
	// comments while offline, and merging must preserve all of them.
	Comments []TaskComment `json:"comments,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TaskComment is a single comment attached to a task. Comments are identified
// by their own ID so that offline additions from different devices can be
// merged without duplication.
type TaskComment struct {
	ID        string    `json:"id"`
	AuthorID  int64     `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// EntityType implements [Entity].
func (t *Task) EntityType() EntityType { return EntityTypeTask }

// Key implements [Entity].
func (t *Task) Key() string { return t.ID }

// Clone implements [Entity]. Slices are copied so the clone shares no memory
// with the receiver.
func (t *Task) Clone() Entity {
	clone := *t
	if t.Tags != nil {
		clone.Tags = append([]string(nil), t.Tags...)
	}
	if t.Comments != nil {
		clone.Comments = append([]TaskComment(nil), t.Comments...)
	}
	if t.DueDate != nil {
		due := *t.DueDate
		clone.DueDate = &due
	}
	if t.StartDate != nil {
		start := *t.StartDate
		clone.StartDate = &start
	}
	return &clone
}
