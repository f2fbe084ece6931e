package domain

import "time"

type Department struct {
	ID        string
	Code      string // unique
	Name      string
	Active    bool // soft delete flag
	CreatedBy string
	UpdatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}
