package chain

import "errors"

// Admission errors. Validation failures are expected, recoverable
// conditions: the candidate is rejected and chain state is unchanged.
// ErrChainCorrupt is different: it means an internal invariant has
// already been violated and the process should not continue.
var (
	ErrBadArguments    = errors.New("bad arguments")
	ErrTimeTooNew      = errors.New("header timestamp too far in the future")
	ErrDuplicate       = errors.New("duplicate header")
	ErrDuplicateOrphan = errors.New("duplicate orphan header")
	ErrTimeTooOld      = errors.New("header timestamp not after median time past")
	ErrBadDiffBits     = errors.New("difficulty bits do not match required value")
	ErrChainCorrupt    = errors.New("chain state corrupted")
)
