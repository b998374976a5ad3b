package splits

import (
	"sync"

	"github.com/splitsorg/libsplits-go/splitcfg"
)

// Wallet is the per-split receiving endpoint. Incoming funds accumulate
// here as raw per-asset balances until a distribution sweeps them into the
// ledger. A wallet is bound 1:1 to a split record at creation and only the
// registry may sweep it.
type Wallet struct {
	mu       sync.Mutex
	split    splitcfg.Address
	balances map[splitcfg.Asset]uint64
}

func newWallet(split splitcfg.Address) *Wallet {
	return &Wallet{
		split:    split,
		balances: make(map[splitcfg.Asset]uint64),
	}
}

// Split returns the address of the split this wallet belongs to.
func (w *Wallet) Split() splitcfg.Address {
	return w.split
}

// Deposit accumulates amount of asset in the wallet.
func (w *Wallet) Deposit(asset splitcfg.Asset, amount uint64) {
	if amount == 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.balances[asset] += amount
}

// Balance returns the raw accumulated balance for asset.
func (w *Wallet) Balance(asset splitcfg.Asset) uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.balances[asset]
}

// Sweep zeroes the wallet's balance for asset and returns the amount
// forwarded.
func (w *Wallet) Sweep(asset splitcfg.Asset) uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	amount := w.balances[asset]
	w.balances[asset] = 0
	return amount
}
