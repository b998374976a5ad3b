package ledger

import "github.com/splitsorg/libsplits-go/splitcfg"

// Transferrer moves assets out of the ledger to an external destination.
// It abstracts whatever actually carries value (a chain client, a payment
// rail, a test double); the ledger only cares whether the transfer was
// accepted.
type Transferrer interface {
	// Transfer sends amount of asset to the given account. A non-nil
	// error means the receiving side rejected the transfer and no value
	// moved.
	Transfer(to splitcfg.Address, asset splitcfg.Asset, amount uint64) error
}

// MockTransferrer is a test double for Transferrer.
// TransferFn must be set before Transfer is called.
type MockTransferrer struct {
	TransferFn func(to splitcfg.Address, asset splitcfg.Asset, amount uint64) error
}

func (m *MockTransferrer) Transfer(to splitcfg.Address, asset splitcfg.Asset, amount uint64) error {
	return m.TransferFn(to, asset, amount)
}
