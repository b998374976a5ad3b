// Package splits binds split identifiers to their configuration
// commitments, controllers, and recipient wallets, and exposes the public
// operation surface: create, update, distribute, control handoff, and
// withdrawal. Only configuration hashes are persisted per split; callers
// re-supply the full configuration on every operation that needs it and
// the registry verifies it against the stored commitment.
package splits

import (
	"sync"

	"github.com/splitsorg/libsplits-go/ledger"
	"github.com/splitsorg/libsplits-go/splitcfg"
)

// Registry is the top-level orchestrator. A single mutex serializes all
// public operations, so each runs to completion or not at all; on any
// error no state has changed.
type Registry struct {
	mu        sync.Mutex
	store     Store
	ledger    *ledger.Ledger
	transfer  ledger.Transferrer
	events    Sink
	feePolicy FeePolicy
	wallets   map[splitcfg.Address]*Wallet
}

// NewRegistry creates a registry over the given record store and ledger.
// tr carries withdrawals out of the ledger; it may be nil if withdrawals
// are never used.
func NewRegistry(store Store, l *ledger.Ledger, tr ledger.Transferrer, opts ...Option) (*Registry, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	if l == nil {
		return nil, ErrNilLedger
	}

	r := &Registry{
		store:     store,
		ledger:    l,
		transfer:  tr,
		events:    NopSink{},
		feePolicy: CallerFeePolicy,
		wallets:   make(map[splitcfg.Address]*Wallet),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// CreateSplit validates cfg and creates a split. A zero controller makes
// the split permanently immutable and derives its address from the
// configuration commitment alone, so re-creating an identical immutable
// configuration fails with ErrDuplicateSplit. Any other controller mixes a
// creation nonce into the derivation, so identical configurations yield
// distinct splits.
func (r *Registry) CreateSplit(cfg splitcfg.SplitConfig, controller splitcfg.Address) (splitcfg.Address, error) {
	if err := splitcfg.Validate(cfg); err != nil {
		return splitcfg.Address{}, err
	}
	hash := cfg.Hash()

	r.mu.Lock()
	defer r.mu.Unlock()

	var addr splitcfg.Address
	if controller.IsZero() {
		addr = deriveAddress(deriveImmutable, hash, nil)
	} else {
		addr = deriveAddress(deriveMutable, hash, newNonce())
	}

	rec := &SplitRecord{
		Address:    addr,
		Hash:       hash,
		Controller: controller,
	}
	if err := r.store.PutSplit(rec); err != nil {
		return splitcfg.Address{}, err
	}
	r.wallets[addr] = newWallet(addr)

	r.events.Emit(Event{
		Type:       EventCreateSplit,
		Split:      addr,
		Hash:       hash,
		Controller: controller,
	})
	return addr, nil
}

// PredictImmutableSplitAddress returns the address CreateSplit would
// assign to cfg under the zero controller, without creating anything.
func (r *Registry) PredictImmutableSplitAddress(cfg splitcfg.SplitConfig) (splitcfg.Address, error) {
	if err := splitcfg.Validate(cfg); err != nil {
		return splitcfg.Address{}, err
	}
	return deriveAddress(deriveImmutable, cfg.Hash(), nil), nil
}

// UpdateSplit replaces the split's configuration commitment. Only the
// controller may update; immutable splits always fail with
// ErrUnauthorized.
func (r *Registry) UpdateSplit(split splitcfg.Address, caller splitcfg.Address, cfg splitcfg.SplitConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, err := r.store.GetSplit(split)
	if err != nil {
		return err
	}
	return r.updateLocked(rec, caller, cfg)
}

// updateLocked authorizes and applies a configuration update against an
// already-loaded record. Callers hold r.mu.
func (r *Registry) updateLocked(rec *SplitRecord, caller splitcfg.Address, cfg splitcfg.SplitConfig) error {
	if err := splitcfg.Validate(cfg); err != nil {
		return err
	}
	if err := requireController(rec, caller); err != nil {
		return err
	}

	rec.Hash = cfg.Hash()
	if err := r.store.UpdateSplit(rec); err != nil {
		return err
	}

	r.events.Emit(Event{
		Type:  EventUpdateSplit,
		Split: rec.Address,
		Hash:  rec.Hash,
	})
	return nil
}

// DepositNative accumulates native funds in the split's wallet. This is
// the funding hook for the external transport that moves value in.
func (r *Registry) DepositNative(split splitcfg.Address, amount uint64) error {
	return r.deposit(split, splitcfg.Native, amount)
}

// DepositToken accumulates token funds in the split's wallet.
func (r *Registry) DepositToken(split splitcfg.Address, token splitcfg.Address, amount uint64) error {
	return r.deposit(split, splitcfg.TokenAsset(token), amount)
}

func (r *Registry) deposit(split splitcfg.Address, asset splitcfg.Asset, amount uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.store.GetSplit(split); err != nil {
		return err
	}
	r.walletLocked(split).Deposit(asset, amount)
	return nil
}

// walletLocked returns the split's wallet, creating it if the record was
// loaded from a reopened store. Callers hold r.mu.
func (r *Registry) walletLocked(split splitcfg.Address) *Wallet {
	w, ok := r.wallets[split]
	if !ok {
		w = newWallet(split)
		r.wallets[split] = w
	}
	return w
}

// Withdraw drains the account's withdrawable balances for the requested
// assets. Zero-balance assets are no-ops; see ledger.Withdraw for the
// reserve and rollback semantics.
func (r *Registry) Withdraw(account splitcfg.Address, wantsNative bool, tokens []splitcfg.Address) (map[splitcfg.Asset]uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	assets := make([]splitcfg.Asset, 0, len(tokens)+1)
	if wantsNative {
		assets = append(assets, splitcfg.Native)
	}
	for _, token := range tokens {
		assets = append(assets, splitcfg.TokenAsset(token))
	}

	withdrawn, err := r.ledger.Withdraw(account, assets, r.transfer)
	if err != nil {
		return nil, err
	}

	r.events.Emit(Event{
		Type:      EventWithdrawal,
		Account:   account,
		Withdrawn: withdrawn,
	})
	return withdrawn, nil
}

// GetHash returns the split's configuration commitment.
func (r *Registry) GetHash(split splitcfg.Address) (splitcfg.Commitment, error) {
	rec, err := r.getSplit(split)
	if err != nil {
		return splitcfg.Commitment{}, err
	}
	return rec.Hash, nil
}

// GetController returns the split's controller, zero if immutable.
func (r *Registry) GetController(split splitcfg.Address) (splitcfg.Address, error) {
	rec, err := r.getSplit(split)
	if err != nil {
		return splitcfg.Address{}, err
	}
	return rec.Controller, nil
}

// GetNewPotentialController returns the pending control-transfer target,
// zero when no transfer is in flight.
func (r *Registry) GetNewPotentialController(split splitcfg.Address) (splitcfg.Address, error) {
	rec, err := r.getSplit(split)
	if err != nil {
		return splitcfg.Address{}, err
	}
	return rec.PendingController, nil
}

// GetNativeBalance returns the account's withdrawable native balance.
func (r *Registry) GetNativeBalance(account splitcfg.Address) (uint64, error) {
	return r.ledger.Balance(account, splitcfg.Native)
}

// GetTokenBalance returns the account's withdrawable balance for token.
func (r *Registry) GetTokenBalance(account splitcfg.Address, token splitcfg.Address) (uint64, error) {
	return r.ledger.Balance(account, splitcfg.TokenAsset(token))
}

func (r *Registry) getSplit(split splitcfg.Address) (*SplitRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.GetSplit(split)
}
