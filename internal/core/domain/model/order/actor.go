package order

import (
	"fmt"

	"codorders/internal/core/domain/model/kernel"
	"codorders/internal/pkg/errs"
)

// Privilege ranks the acting principal for transition decisions.
// Only the two highest ranks may force a transition past the rule table.
type Privilege int

const (
	// PrivilegeUnknown represents an invalid or undefined privilege.
	PrivilegeUnknown Privilege = iota

	// PrivilegeOperator is a dashboard agent: ordinary transitions only.
	PrivilegeOperator

	// PrivilegeManager may force transitions and hard-limits apply.
	PrivilegeManager

	// PrivilegeOwner is the owning principal: may force transitions and
	// permanently delete orders.
	PrivilegeOwner
)

func getPrivilegeStrings() map[Privilege]string {
	return map[Privilege]string{
		PrivilegeUnknown:  "unknown",
		PrivilegeOperator: "operator",
		PrivilegeManager:  "manager",
		PrivilegeOwner:    "owner",
	}
}

// ParsePrivilege converts a wire string into a Privilege.
func ParsePrivilege(s string) (Privilege, error) {
	for p, str := range getPrivilegeStrings() {
		if str == s && p != PrivilegeUnknown {
			return p, nil
		}
	}
	return PrivilegeUnknown, errs.NewValueIsInvalidErrorWithCause("privilege",
		fmt.Errorf("%q is not a valid privilege", s))
}

// Validate checks if the Privilege is one of the defined ranks.
func (p Privilege) Validate() error {
	if p == PrivilegeUnknown {
		return errs.NewValueIsInvalidErrorWithCause("privilege",
			fmt.Errorf("%d is not a valid privilege", int(p)))
	}
	if _, ok := getPrivilegeStrings()[p]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("privilege",
			fmt.Errorf("%d is not a valid privilege", int(p)))
	}
	return nil
}

// String returns the wire name of the privilege.
func (p Privilege) String() string {
	if str, ok := getPrivilegeStrings()[p]; ok {
		return str
	}
	return "unknown"
}

// CanForce reports whether this privilege may bypass the transition table.
func (p Privilege) CanForce() bool {
	return p == PrivilegeManager || p == PrivilegeOwner
}

// CanHardDelete reports whether this privilege may permanently remove an order.
func (p Privilege) CanHardDelete() bool {
	return p == PrivilegeOwner
}

// Actor identifies the principal performing an operation together with its
// privilege rank. Actors are value objects carried by commands and recorded
// in the transition history.
type Actor struct {
	id        kernel.UUID
	privilege Privilege
}

// NewActor creates an Actor after validating both the identity and the rank.
func NewActor(id kernel.UUID, privilege Privilege) (Actor, error) {
	if err := id.Validate(); err != nil {
		return Actor{}, err
	}
	if err := privilege.Validate(); err != nil {
		return Actor{}, err
	}
	return Actor{id: id, privilege: privilege}, nil
}

// ID returns the principal's identifier.
func (a Actor) ID() kernel.UUID {
	return a.id
}

// Privilege returns the principal's rank.
func (a Actor) Privilege() Privilege {
	return a.privilege
}

// Validate checks the actor was built through NewActor.
func (a Actor) Validate() error {
	if err := a.id.Validate(); err != nil {
		return err
	}
	return a.privilege.Validate()
}
