// Package gadget holds the gadget inventory model and its lifecycle rules.
package gadget

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// Status is the lifecycle state of a gadget.
type Status string

const (
	StatusAvailable      Status = "AVAILABLE"
	StatusDecommissioned Status = "DECOMMISSIONED"
	StatusDestroyed      Status = "DESTROYED"
)

// Statuses lists every known status.
var Statuses = []Status{StatusAvailable, StatusDecommissioned, StatusDestroyed}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return slices.Contains(Statuses, s)
}

// ParseStatus accepts the exact status names only.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q, want one of %v", ErrInvalidStatus, s, Statuses)
	}
	return st, nil
}

const (
	MinProbability = 0
	MaxProbability = 100
)

// Gadget is an inventory item. SuccessProbability is always within [0,100].
type Gadget struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	SuccessProbability int       `json:"successProbability"`
	Status             Status    `json:"status"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

var (
	ErrNotFound           = errors.New("gadget not found")
	ErrNoValidFields      = errors.New("invalid fields provided, only name, successProbability and status can be updated")
	ErrInvalidFilter      = errors.New("invalid filter")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidProbability = errors.New("successProbability must be an integer between 0 and 100")
	ErrInvalidName        = errors.New("name must be a non-empty string")
)
