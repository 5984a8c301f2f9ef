package models

import (
	"github.com/go-playground/validator/v10"
)

// Placement names where a node lands relative to its target.
type Placement string

const (
	PlacementRoot    Placement = "root"    // become a top-level node
	PlacementAppend  Placement = "append"  // last child of target
	PlacementPrepend Placement = "prepend" // first child of target
	PlacementBefore  Placement = "before"  // preceding sibling of target
	PlacementAfter   Placement = "after"   // following sibling of target
)

// CreateNodeRequest represents the request body for creating a node.
// Placement defaults to root; every other placement needs a target node.
type CreateNodeRequest struct {
	Label     string    `json:"label" validate:"required,min=1,max=100"`
	Placement Placement `json:"placement" validate:"omitempty,oneof=root append prepend before after"`
	TargetID  int64     `json:"targetId" validate:"omitempty,gt=0"`
}

// MoveNodeRequest represents the request body for re-placing a node
type MoveNodeRequest struct {
	Placement Placement `json:"placement" validate:"required,oneof=root append prepend before after"`
	TargetID  int64     `json:"targetId" validate:"required_unless=Placement root,omitempty,gt=0"`
}

// UpdateNodeRequest represents the request body for renaming a node
type UpdateNodeRequest struct {
	Label string `json:"label" validate:"required,min=1,max=100"`
}

// Validate validates the create node request
func (r *CreateNodeRequest) Validate() error {
	if r.Placement == "" {
		r.Placement = PlacementRoot
	}
	if err := validator.New().Struct(r); err != nil {
		return err
	}
	return validatePlacementTarget(r.Placement, r.TargetID)
}

// Validate validates the move node request
func (r *MoveNodeRequest) Validate() error {
	if err := validator.New().Struct(r); err != nil {
		return err
	}
	return validatePlacementTarget(r.Placement, r.TargetID)
}

// Validate validates the update node request
func (r *UpdateNodeRequest) Validate() error {
	return validator.New().Struct(r)
}

// ErrMissingTarget is returned when a relative placement has no target node
type ErrMissingTarget struct{}

func (ErrMissingTarget) Error() string {
	return "targetId is required for placements other than root"
}

func validatePlacementTarget(p Placement, targetID int64) error {
	if p != PlacementRoot && targetID == 0 {
		return ErrMissingTarget{}
	}
	return nil
}
