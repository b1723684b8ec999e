package warehouse

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tms/backend/internal/domain/shared"
)

// Status represents whether a warehouse accepts stock
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Warehouse is a storage site that receives import goods and releases export stock
type Warehouse struct {
	shared.TenantAggregateRoot
	Code         string
	Name         string
	Address      string
	City         string
	Country      string
	ContactName  string
	ContactPhone string
	CapacityCBM  *decimal.Decimal
	Status       Status
	Notes        string
}

// NewWarehouse creates an active warehouse
func NewWarehouse(tenantID uuid.UUID, code, name string) (*Warehouse, error) {
	if err := validateCode(code); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	w := &Warehouse{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(strings.TrimSpace(code)),
		Name:                strings.TrimSpace(name),
		Status:              StatusActive,
	}
	w.AddDomainEvent(NewWarehouseEvent(EventTypeWarehouseCreated, w))
	return w, nil
}

// Update changes name and location fields
func (w *Warehouse) Update(name, address, city, country string) error {
	if err := validateName(name); err != nil {
		return err
	}
	w.Name = strings.TrimSpace(name)
	w.Address = strings.TrimSpace(address)
	w.City = strings.TrimSpace(city)
	w.Country = strings.TrimSpace(country)
	w.Touch()
	return nil
}

// SetContact sets the on-site contact
func (w *Warehouse) SetContact(name, phone string) {
	w.ContactName = strings.TrimSpace(name)
	w.ContactPhone = strings.TrimSpace(phone)
	w.Touch()
}

// SetCapacity sets the storage capacity in cubic metres; nil clears it
func (w *Warehouse) SetCapacity(cbm *decimal.Decimal) error {
	if cbm != nil && !cbm.IsPositive() {
		return shared.NewDomainError("INVALID_CAPACITY", "Capacity must be positive")
	}
	w.CapacityCBM = cbm
	w.Touch()
	return nil
}

// SetNotes sets free-text notes
func (w *Warehouse) SetNotes(notes string) {
	w.Notes = notes
	w.Touch()
}

// Activate allows the warehouse to accept stock
func (w *Warehouse) Activate() error {
	if w.Status == StatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Warehouse is already active")
	}
	w.Status = StatusActive
	w.Touch()
	w.AddDomainEvent(NewWarehouseEvent(EventTypeWarehouseActivated, w))
	return nil
}

// Deactivate stops the warehouse from accepting new stock or bookings
func (w *Warehouse) Deactivate() error {
	if w.Status == StatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Warehouse is already inactive")
	}
	w.Status = StatusInactive
	w.Touch()
	w.AddDomainEvent(NewWarehouseEvent(EventTypeWarehouseDeactivated, w))
	return nil
}

// IsActive returns true if the warehouse accepts stock
func (w *Warehouse) IsActive() bool {
	return w.Status == StatusActive
}

// EnsureActive returns an error if the warehouse cannot take new work
func (w *Warehouse) EnsureActive() error {
	if !w.IsActive() {
		return shared.NewDomainErrorf("WAREHOUSE_INACTIVE", "Warehouse %s is inactive", w.Code)
	}
	return nil
}

func validateCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Warehouse code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Warehouse code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_') {
			return shared.NewDomainError("INVALID_CODE", "Warehouse code can only contain letters, numbers, hyphens and underscores")
		}
	}
	return nil
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Warehouse name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Warehouse name cannot exceed 200 characters")
	}
	return nil
}
