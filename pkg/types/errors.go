package types

import "errors"

// Project lifecycle errors.
var (
	ErrProjectClosed = errors.New("project is closed")
	ErrAlreadyOpen   = errors.New("project is already open")
	ErrNotFound      = errors.New("not found")
	ErrInvalidID     = errors.New("invalid identifier")
)

// Configuration errors. These abort the affected watershed's run rather
// than falling back to an unvalidated default.
var (
	ErrSuitabilityRange  = errors.New("suitability must be between 0 and 4")
	ErrMissingHydroParam = errors.New("missing hydrology parameter for watershed")
	ErrUnknownVegetation = errors.New("unknown vegetation type")
	ErrUnknownWatershed  = errors.New("unknown watershed")
	ErrBufferMismatch    = errors.New("configured buffer widths do not match the project's vegetation aggregates")
)

// Data validation errors, mirroring the schema check constraints.
var (
	ErrLengthNotPositive = errors.New("reach length must be strictly positive")
	ErrNegativeValue     = errors.New("value must be non-negative")
	ErrEmptyArea         = errors.New("vegetation area and cell count must be positive")
)
