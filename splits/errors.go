package splits

import "errors"

var (
	// ErrSplitNotFound indicates no split exists at the given address.
	ErrSplitNotFound = errors.New("splits: split not found")

	// ErrDuplicateSplit indicates a split already exists at the derived
	// address. Re-creating an identical immutable configuration hits this
	// by construction.
	ErrDuplicateSplit = errors.New("splits: split already exists")

	// ErrUnauthorized indicates the caller lacks the required role for the
	// operation.
	ErrUnauthorized = errors.New("splits: unauthorized")

	// ErrInvalidNewController indicates a control transfer to the none
	// sentinel. Use MakeSplitImmutable to give up control.
	ErrInvalidNewController = errors.New("splits: new controller must not be the zero address")

	// ErrInvalidHash indicates the supplied configuration does not match
	// the stored commitment. The caller must re-fetch the canonical
	// configuration.
	ErrInvalidHash = errors.New("splits: configuration hash mismatch")

	// ErrNilStore indicates the registry was constructed without a store.
	ErrNilStore = errors.New("splits: nil store")

	// ErrNilLedger indicates the registry was constructed without a ledger.
	ErrNilLedger = errors.New("splits: nil ledger")
)
