package models

import "errors"

// Error categories shared across the pipeline. Wrap with fmt.Errorf("%w: ...")
// and test with errors.Is.
var (
	// ErrSchema marks a sheet the normalizer cannot accept: ragged rows,
	// an unmapped header, or a missing required column. Aborts the file.
	ErrSchema = errors.New("schema violation")

	// ErrStorage marks a driver or SQL failure. Aborts the current
	// operation and propagates.
	ErrStorage = errors.New("storage failure")
)
