package domain

import (
	"fmt"
	"time"
)

type TicketType string

const (
	TicketRepair      TicketType = "Repair"
	TicketMaintenance TicketType = "Maintenance"
	TicketRequest     TicketType = "Request"
	TicketIncident    TicketType = "Incident"
)

func ParseTicketType(s string) (TicketType, error) {
	switch TicketType(s) {
	case TicketRepair, TicketMaintenance, TicketRequest, TicketIncident:
		return TicketType(s), nil
	}
	return "", fmt.Errorf("%w: ticket type %q", ErrInvalidEnum, s)
}

type TicketPriority string

const (
	PriorityLow    TicketPriority = "Low"
	PriorityMedium TicketPriority = "Medium"
	PriorityHigh   TicketPriority = "High"
	PriorityUrgent TicketPriority = "Urgent"
)

func ParseTicketPriority(s string) (TicketPriority, error) {
	switch TicketPriority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return TicketPriority(s), nil
	}
	return "", fmt.Errorf("%w: ticket priority %q", ErrInvalidEnum, s)
}

type TicketStatus string

const (
	StatusNew       TicketStatus = "New"
	StatusAssigned  TicketStatus = "Assigned"
	StatusDoing     TicketStatus = "Doing"
	StatusWaiting   TicketStatus = "Waiting"
	StatusDone      TicketStatus = "Done"
	StatusCancelled TicketStatus = "Cancelled"
)

func ParseTicketStatus(s string) (TicketStatus, error) {
	switch TicketStatus(s) {
	case StatusNew, StatusAssigned, StatusDoing, StatusWaiting, StatusDone, StatusCancelled:
		return TicketStatus(s), nil
	}
	return "", fmt.Errorf("%w: ticket status %q", ErrInvalidEnum, s)
}

// Ticket is a maintenance request raised against one or more asset
// items. AssetItemIDs is never empty.
type Ticket struct {
	ID           string
	Code         string // unique
	Title        string
	Description  string
	Type         TicketType
	AssetItemIDs []string
	Priority     TicketPriority
	Status       TicketStatus
	Cause        string
	Note         string
	LocationID   string
	AssigneeID   string
	ImageURLs    []string // ordered blob references, managed by the attachment lifecycle
	DueAt        *time.Time
	ClosedAt     *time.Time
	CreatedBy    string
	UpdatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TicketFilter narrows ticket listings. StartDueAt/EndDueAt are
// inclusive bounds on DueAt; one side absent leaves a half-open range.
type TicketFilter struct {
	Code         string
	Title        string
	Type         *TicketType
	Priority     *TicketPriority
	Status       *TicketStatus
	AssetItemIDs []string // all-of
	AssigneeID   string
	LocationID   string
	CreatedBy    string
	StartDueAt   *time.Time
	EndDueAt     *time.Time
}
