package services

import "errors"

var (
	// ErrEmptyBatch is returned when an import is attempted with no rows.
	ErrEmptyBatch = errors.New("score batch is empty")

	// ErrImportInProgress is returned when another import holds the
	// advisory lock for the same model version.
	ErrImportInProgress = errors.New("another import is running for this model version")

	// ErrInvalidBounds is returned for a bounding box whose minimum exceeds
	// its maximum.
	ErrInvalidBounds = errors.New("bounding box minimum exceeds maximum")

	// ErrScoreNotFound is returned when a tower has no score for the
	// requested model version.
	ErrScoreNotFound = errors.New("no anomaly score for tower")
)
