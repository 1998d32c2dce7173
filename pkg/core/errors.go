package core

import "errors"

// Sentinel errors. Wrap with fmt.Errorf("...: %w", err) and test with errors.Is.
var (
	// ErrLengthMismatch is returned when the charge sequence does not align with the atom set.
	ErrLengthMismatch = errors.New("charge count does not match atom count")

	// ErrDegeneratePeriod is returned when the periodicity length along the
	// surface normal is not a finite positive number.
	ErrDegeneratePeriod = errors.New("degenerate periodicity along surface normal")

	// ErrNoValidTermination is returned when no cut window is both
	// charge-neutral and stoichiometric.
	ErrNoValidTermination = errors.New("no valid stoichiometric termination found")

	// ErrInvalidMiller is returned for unparseable or all-zero Miller indices.
	ErrInvalidMiller = errors.New("invalid miller index")

	// ErrUnknownFormat is returned when a file format or parser name is not registered.
	ErrUnknownFormat = errors.New("unknown format")

	// ErrEmptyStructure is returned when a structure has no atoms.
	ErrEmptyStructure = errors.New("structure has no atoms")
)
