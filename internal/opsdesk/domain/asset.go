package domain

import (
	"fmt"
	"time"
)

type AssetType string

const (
	AssetDevice    AssetType = "Device"
	AssetAppliance AssetType = "Appliance"
	AssetFurniture AssetType = "Furniture"
	AssetIT        AssetType = "IT"
	AssetFacility  AssetType = "Facility"
)

func ParseAssetType(s string) (AssetType, error) {
	switch AssetType(s) {
	case AssetDevice, AssetAppliance, AssetFurniture, AssetIT, AssetFacility:
		return AssetType(s), nil
	}
	return "", fmt.Errorf("%w: asset type %q", ErrInvalidEnum, s)
}

// Asset is a tracked physical asset. Deployable units of an asset are
// Items; maintenance work against them is raised as Tickets.
type Asset struct {
	ID          string
	Code        string // unique natural key
	Name        string
	Type        AssetType
	Description string
	Vendor      string
	Model       string
	PurchaseURL string
	ImageURLs   []string // ordered blob references, managed by the attachment lifecycle
	Active      bool     // soft delete flag
	CreatedBy   string
	UpdatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AssetFilter narrows asset listings. Text fields are case-insensitive
// partial matches; nil fields impose no constraint.
type AssetFilter struct {
	Code      string
	Name      string
	Vendor    string
	Model     string
	Type      *AssetType
	Active    *bool
	CreatedBy string
}
