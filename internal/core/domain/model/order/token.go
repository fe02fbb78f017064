package order

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"codorders/internal/pkg/errs"
)

// tokenByteLen is the entropy of a delivery token. 32 random bytes render as
// 64 hex characters; the token is the sole credential for the public courier
// surface, so it must be unguessable.
const tokenByteLen = 32

// DeliveryToken is the single-use credential granting access to the public
// courier delivery endpoints for exactly one order. It is issued when the
// order enters an awaiting-courier status, invalidated when the customer
// rates the delivery or cancels after a failure, and never reused: a
// reactivated order always receives a freshly generated value.
type DeliveryToken struct {
	value string
}

// NewDeliveryToken generates a fresh unguessable token.
func NewDeliveryToken() (DeliveryToken, error) {
	buf := make([]byte, tokenByteLen)
	if _, err := rand.Read(buf); err != nil {
		return DeliveryToken{}, fmt.Errorf("generate delivery token: %w", err)
	}
	return DeliveryToken{value: hex.EncodeToString(buf)}, nil
}

// RestoreDeliveryToken rebuilds a token from its persisted value.
func RestoreDeliveryToken(value string) (DeliveryToken, error) {
	token := DeliveryToken{value: value}
	if err := token.Validate(); err != nil {
		return DeliveryToken{}, err
	}
	return token, nil
}

// Validate checks the token has the expected shape.
func (t DeliveryToken) Validate() error {
	if len(t.value) != tokenByteLen*2 {
		return errs.NewValueIsInvalidErrorWithCause("delivery_token",
			fmt.Errorf("token length is %d, want %d", len(t.value), tokenByteLen*2))
	}
	if _, err := hex.DecodeString(t.value); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("delivery_token", err)
	}
	return nil
}

// String returns the opaque token value as used in courier-facing URLs.
func (t DeliveryToken) String() string {
	return t.value
}

// IsEqual compares two tokens for equality.
func (t DeliveryToken) IsEqual(other DeliveryToken) bool {
	return t.value == other.value
}
