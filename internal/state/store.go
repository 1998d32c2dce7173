// Package state records generation runs and their per-Miller results in SQLite.
//
// Core types are defined in pkg/core; the aliases below keep call sites in
// this package short.
package state

import (
	"errors"

	"github.com/leapstack-labs/taskerslab/pkg/core"
)

type (
	// Store is an alias for core.Store.
	Store = core.Store

	// Run is an alias for core.Run.
	Run = core.Run

	// MillerResult is an alias for core.MillerResult.
	MillerResult = core.MillerResult
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("not found")

var errNotOpened = errors.New("database not opened")
