package mongo

import (
	"time"

	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/domain"
)

// Document shapes as stored in MongoDB. The domain types stay free of
// bson tags; these mirrors own the field naming on the wire.

type userDoc struct {
	ID           string    `bson:"_id"`
	Username     string    `bson:"username"`
	Email        string    `bson:"email"`
	Name         string    `bson:"name"`
	PasswordHash string    `bson:"passwordHash"`
	Role         string    `bson:"role"`
	Status       string    `bson:"status"`
	DeptID       string    `bson:"deptId,omitempty"`
	CreatedBy    string    `bson:"createdBy,omitempty"`
	UpdatedBy    string    `bson:"updatedBy,omitempty"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

func userToDoc(u domain.User) userDoc {
	return userDoc{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		Status:       string(u.Status),
		DeptID:       u.DeptID,
		CreatedBy:    u.CreatedBy,
		UpdatedBy:    u.UpdatedBy,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func userFromDoc(d userDoc) domain.User {
	return domain.User{
		ID:           d.ID,
		Username:     d.Username,
		Email:        d.Email,
		Name:         d.Name,
		PasswordHash: d.PasswordHash,
		Role:         domain.Role(d.Role),
		Status:       domain.UserStatus(d.Status),
		DeptID:       d.DeptID,
		CreatedBy:    d.CreatedBy,
		UpdatedBy:    d.UpdatedBy,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type deptDoc struct {
	ID        string    `bson:"_id"`
	Code      string    `bson:"code"`
	Name      string    `bson:"name"`
	Active    bool      `bson:"active"`
	CreatedBy string    `bson:"createdBy,omitempty"`
	UpdatedBy string    `bson:"updatedBy,omitempty"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func deptToDoc(d domain.Department) deptDoc {
	return deptDoc{
		ID:        d.ID,
		Code:      d.Code,
		Name:      d.Name,
		Active:    d.Active,
		CreatedBy: d.CreatedBy,
		UpdatedBy: d.UpdatedBy,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func deptFromDoc(d deptDoc) domain.Department {
	return domain.Department{
		ID:        d.ID,
		Code:      d.Code,
		Name:      d.Name,
		Active:    d.Active,
		CreatedBy: d.CreatedBy,
		UpdatedBy: d.UpdatedBy,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type assetDoc struct {
	ID          string    `bson:"_id"`
	Code        string    `bson:"code"`
	Name        string    `bson:"name"`
	Type        string    `bson:"type"`
	Description string    `bson:"description,omitempty"`
	Vendor      string    `bson:"vendor,omitempty"`
	Model       string    `bson:"model,omitempty"`
	PurchaseURL string    `bson:"purchaseUrl,omitempty"`
	ImageURLs   []string  `bson:"imageUrls"`
	Active      bool      `bson:"active"`
	CreatedBy   string    `bson:"createdBy,omitempty"`
	UpdatedBy   string    `bson:"updatedBy,omitempty"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

func assetToDoc(a domain.Asset) assetDoc {
	images := a.ImageURLs
	if images == nil {
		// $size preconditions require the array to exist, never null
		images = []string{}
	}
	return assetDoc{
		ID:          a.ID,
		Code:        a.Code,
		Name:        a.Name,
		Type:        string(a.Type),
		Description: a.Description,
		Vendor:      a.Vendor,
		Model:       a.Model,
		PurchaseURL: a.PurchaseURL,
		ImageURLs:   images,
		Active:      a.Active,
		CreatedBy:   a.CreatedBy,
		UpdatedBy:   a.UpdatedBy,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func assetFromDoc(d assetDoc) domain.Asset {
	return domain.Asset{
		ID:          d.ID,
		Code:        d.Code,
		Name:        d.Name,
		Type:        domain.AssetType(d.Type),
		Description: d.Description,
		Vendor:      d.Vendor,
		Model:       d.Model,
		PurchaseURL: d.PurchaseURL,
		ImageURLs:   d.ImageURLs,
		Active:      d.Active,
		CreatedBy:   d.CreatedBy,
		UpdatedBy:   d.UpdatedBy,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type itemDoc struct {
	ID           string    `bson:"_id"`
	AssetID      string    `bson:"assetId"`
	Code         string    `bson:"code"`
	SerialNumber string    `bson:"serialNumber,omitempty"`
	Status       string    `bson:"status"`
	LocationID   string    `bson:"locationId,omitempty"`
	OwnerDeptID  string    `bson:"ownerDeptId,omitempty"`
	Note         string    `bson:"note,omitempty"`
	CreatedBy    string    `bson:"createdBy,omitempty"`
	UpdatedBy    string    `bson:"updatedBy,omitempty"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

func itemToDoc(i domain.Item) itemDoc {
	return itemDoc{
		ID:           i.ID,
		AssetID:      i.AssetID,
		Code:         i.Code,
		SerialNumber: i.SerialNumber,
		Status:       string(i.Status),
		LocationID:   i.LocationID,
		OwnerDeptID:  i.OwnerDeptID,
		Note:         i.Note,
		CreatedBy:    i.CreatedBy,
		UpdatedBy:    i.UpdatedBy,
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
	}
}

func itemFromDoc(d itemDoc) domain.Item {
	return domain.Item{
		ID:           d.ID,
		AssetID:      d.AssetID,
		Code:         d.Code,
		SerialNumber: d.SerialNumber,
		Status:       domain.ItemStatus(d.Status),
		LocationID:   d.LocationID,
		OwnerDeptID:  d.OwnerDeptID,
		Note:         d.Note,
		CreatedBy:    d.CreatedBy,
		UpdatedBy:    d.UpdatedBy,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type ticketDoc struct {
	ID           string     `bson:"_id"`
	Code         string     `bson:"code"`
	Title        string     `bson:"title"`
	Description  string     `bson:"description,omitempty"`
	Type         string     `bson:"type"`
	AssetItemIDs []string   `bson:"assetItemIds"`
	Priority     string     `bson:"priority"`
	Status       string     `bson:"status"`
	Cause        string     `bson:"cause,omitempty"`
	Note         string     `bson:"note,omitempty"`
	LocationID   string     `bson:"locationId,omitempty"`
	AssigneeID   string     `bson:"assigneeId,omitempty"`
	ImageURLs    []string   `bson:"imageUrls"`
	DueAt        *time.Time `bson:"dueAt,omitempty"`
	ClosedAt     *time.Time `bson:"closedAt,omitempty"`
	CreatedBy    string     `bson:"createdBy,omitempty"`
	UpdatedBy    string     `bson:"updatedBy,omitempty"`
	CreatedAt    time.Time  `bson:"createdAt"`
	UpdatedAt    time.Time  `bson:"updatedAt"`
}

func ticketToDoc(t domain.Ticket) ticketDoc {
	images := t.ImageURLs
	if images == nil {
		images = []string{}
	}
	return ticketDoc{
		ID:           t.ID,
		Code:         t.Code,
		Title:        t.Title,
		Description:  t.Description,
		Type:         string(t.Type),
		AssetItemIDs: t.AssetItemIDs,
		Priority:     string(t.Priority),
		Status:       string(t.Status),
		Cause:        t.Cause,
		Note:         t.Note,
		LocationID:   t.LocationID,
		AssigneeID:   t.AssigneeID,
		ImageURLs:    images,
		DueAt:        t.DueAt,
		ClosedAt:     t.ClosedAt,
		CreatedBy:    t.CreatedBy,
		UpdatedBy:    t.UpdatedBy,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

func ticketFromDoc(d ticketDoc) domain.Ticket {
	return domain.Ticket{
		ID:           d.ID,
		Code:         d.Code,
		Title:        d.Title,
		Description:  d.Description,
		Type:         domain.TicketType(d.Type),
		AssetItemIDs: d.AssetItemIDs,
		Priority:     domain.TicketPriority(d.Priority),
		Status:       domain.TicketStatus(d.Status),
		Cause:        d.Cause,
		Note:         d.Note,
		LocationID:   d.LocationID,
		AssigneeID:   d.AssigneeID,
		ImageURLs:    d.ImageURLs,
		DueAt:        d.DueAt,
		ClosedAt:     d.ClosedAt,
		CreatedBy:    d.CreatedBy,
		UpdatedBy:    d.UpdatedBy,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}
