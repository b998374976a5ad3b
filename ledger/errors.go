package ledger

import "errors"

var (
	// ErrInsufficientBalance indicates a withdrawal found funds at or below
	// the retained minimum for a requested asset.
	ErrInsufficientBalance = errors.New("ledger: insufficient balance")

	// ErrTransferFailed indicates the external transfer was rejected; the
	// ledger entry has been rolled back.
	ErrTransferFailed = errors.New("ledger: external transfer failed")

	// ErrNilTransferrer indicates a withdrawal was attempted without an
	// asset-transfer primitive.
	ErrNilTransferrer = errors.New("ledger: nil transferrer")

	// ErrNilStore indicates the ledger was constructed without a store.
	ErrNilStore = errors.New("ledger: nil store")
)
