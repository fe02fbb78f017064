// Package courier contains the Courier aggregate: the delivery person an
// order is assigned to at confirmation time.
package courier

import (
	"errors"

	"codorders/internal/core/domain/model/kernel"
	"codorders/internal/pkg/errs"
)

// ErrCourierIsNotConstructed is returned when a Courier instance was not
// created through NewCourier or RestoreCourier.
var ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier or RestoreCourier")

// Courier is the aggregate root for delivery personnel. Confirmation only
// accepts couriers that are active and belong to the order's tenant.
type Courier struct {
	id       kernel.UUID
	tenantID kernel.UUID
	name     string
	phone    string
	isActive bool

	isConstructed bool
}

// NewCourier creates an active courier for a tenant.
func NewCourier(id, tenantID kernel.UUID, name, phone string) (*Courier, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := tenantID.Validate(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errs.NewValueIsRequiredError("name")
	}

	return &Courier{
		id:            id,
		tenantID:      tenantID,
		name:          name,
		phone:         phone,
		isActive:      true,
		isConstructed: true,
	}, nil
}

// RestoreCourier reconstructs a courier from persistence.
func RestoreCourier(id, tenantID kernel.UUID, name, phone string, isActive bool) (*Courier, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := tenantID.Validate(); err != nil {
		return nil, err
	}

	return &Courier{
		id:            id,
		tenantID:      tenantID,
		name:          name,
		phone:         phone,
		isActive:      isActive,
		isConstructed: true,
	}, nil
}

// Validate ensures the Courier was built through a constructor.
func (c *Courier) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCourierIsNotConstructed
	}
	return nil
}

// ID returns the courier's unique identifier.
func (c *Courier) ID() kernel.UUID {
	return c.id
}

// TenantID returns the owning tenant's identifier.
func (c *Courier) TenantID() kernel.UUID {
	return c.tenantID
}

// Name returns the courier's display name.
func (c *Courier) Name() string {
	return c.name
}

// Phone returns the courier's phone number.
func (c *Courier) Phone() string {
	return c.phone
}

// IsActive reports whether the courier may receive new assignments.
func (c *Courier) IsActive() bool {
	return c.isActive
}

// BelongsToTenant reports whether the courier belongs to the given tenant.
func (c *Courier) BelongsToTenant(tenantID kernel.UUID) bool {
	return c.tenantID.IsEqual(tenantID)
}

// Deactivate removes the courier from the assignable pool.
func (c *Courier) Deactivate() {
	c.isActive = false
}

// Activate returns the courier to the assignable pool.
func (c *Courier) Activate() {
	c.isActive = true
}
