package domain

import (
	"fmt"
	"time"
)

type ItemStatus string

const (
	ItemActive      ItemStatus = "Active"
	ItemFaulty      ItemStatus = "Faulty"
	ItemMaintenance ItemStatus = "Maintenance"
	ItemRetired     ItemStatus = "Retired"
)

func ParseItemStatus(s string) (ItemStatus, error) {
	switch ItemStatus(s) {
	case ItemActive, ItemFaulty, ItemMaintenance, ItemRetired:
		return ItemStatus(s), nil
	}
	return "", fmt.Errorf("%w: item status %q", ErrInvalidEnum, s)
}

// Item is one deployable unit of an Asset. Its code extends the asset
// code with a per-asset sequence number ("CAM-001-003").
type Item struct {
	ID           string
	AssetID      string
	Code         string // unique
	SerialNumber string
	Status       ItemStatus
	LocationID   string
	OwnerDeptID  string
	Note         string
	CreatedBy    string
	UpdatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
