package entity

import "time"

// Status is the workflow column an issue sits in.
type Status string

const (
	StatusToDo       Status = "ToDo"
	StatusInProgress Status = "InProgress"
	StatusDone       Status = "Done"
)

// Statuses lists every status in board order.
var Statuses = []Status{StatusToDo, StatusInProgress, StatusDone}

func (s Status) Valid() bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Issue is a row in the `issues` table.
type Issue struct {
	ID          string     `db:"id" json:"id"`
	ProjectID   string     `db:"project_id" json:"projectId"`
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description"`
	Status      Status     `db:"status" json:"status"`
	Priority    Priority   `db:"priority" json:"priority"`
	AssigneeID  *string    `db:"assignee_id" json:"assigneeId"`
	ReporterID  string     `db:"reporter_id" json:"reporterId"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
	DueDate     *time.Time `db:"due_date" json:"dueDate"`
}

// Board groups issues by status. Every status key is always present.
type Board map[Status][]*Issue

// NewBoard sorts issues into their status columns, keeping input order.
func NewBoard(issues []*Issue) Board {
	b := make(Board, len(Statuses))
	for _, s := range Statuses {
		b[s] = []*Issue{}
	}
	for _, i := range issues {
		b[i.Status] = append(b[i.Status], i)
	}
	return b
}
