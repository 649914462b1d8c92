package service

import "errors"

// Sentinel errors for the caller-facing taxonomy. Handlers map each kind to a
// distinct HTTP status; services wrap them with %w so errors.Is works across
// layers. Mutation failures always roll back the whole transaction — nothing
// is ever partially committed.
var (
	// ErrValidation covers malformed or missing input caught past the binding
	// layer (e.g. unparseable UUIDs inside batch payloads).
	ErrValidation = errors.New("invalid input")

	// ErrDuplicateSKU: product SKU uniqueness violated (global constraint).
	ErrDuplicateSKU = errors.New("sku already exists")

	// ErrNegativeStock: the mutation would drive on-hand quantity below zero
	// and the reason is not an adjustment.
	ErrNegativeStock = errors.New("insufficient stock")

	// ErrInvalidQuantity: zero delta, or a non-positive quantity where a
	// positive one is required.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrInvalidReason: reason is not one of the enumerated ledger reasons.
	ErrInvalidReason = errors.New("invalid ledger reason")

	ErrUnknownProduct   = errors.New("product not found")
	ErrUnknownWarehouse = errors.New("warehouse not found")

	// ErrCrossCompany: the referenced entity exists but belongs to another
	// tenant. Surfaced as forbidden and logged as a security-relevant event.
	ErrCrossCompany = errors.New("entity belongs to another company")

	// ErrConsistency: the projected quantity and the ledger fold disagree.
	// Fatal to the operation — halt and alert an operator, never auto-correct
	// on a user-facing path.
	ErrConsistency = errors.New("inventory projection diverged from ledger")
)
