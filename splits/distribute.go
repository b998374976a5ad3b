package splits

import (
	"fmt"
	"math/bits"

	"github.com/splitsorg/libsplits-go/ledger"
	"github.com/splitsorg/libsplits-go/splitcfg"
)

// mulScale returns amount × numerator / Scale, floored, computed with a
// 128-bit intermediate so the product cannot overflow. numerator must not
// exceed Scale.
func mulScale(amount, numerator uint64) uint64 {
	hi, lo := bits.Mul64(amount, numerator)
	q, _ := bits.Div64(hi, lo, splitcfg.Scale)
	return q
}

// DistributeNative sweeps the split's wallet and distributes the combined
// native balance to the configured recipients. cfg must match the stored
// commitment. A zero distributor address pays the fee per the registry's
// fee policy (by default, to caller).
func (r *Registry) DistributeNative(split splitcfg.Address, cfg splitcfg.SplitConfig, distributor, caller splitcfg.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, err := r.store.GetSplit(split)
	if err != nil {
		return err
	}
	return r.distributeLocked(rec, cfg, splitcfg.Native, distributor, caller)
}

// DistributeToken is DistributeNative for a fungible token.
func (r *Registry) DistributeToken(split splitcfg.Address, token splitcfg.Address, cfg splitcfg.SplitConfig, distributor, caller splitcfg.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, err := r.store.GetSplit(split)
	if err != nil {
		return err
	}
	return r.distributeLocked(rec, cfg, splitcfg.TokenAsset(token), distributor, caller)
}

// UpdateAndDistributeNative replaces the split's configuration and then
// distributes against the new configuration. Authorization and validation
// run before any state changes, so the pair succeeds or fails as one.
func (r *Registry) UpdateAndDistributeNative(split splitcfg.Address, cfg splitcfg.SplitConfig, distributor, caller splitcfg.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updateAndDistributeLocked(split, cfg, splitcfg.Native, distributor, caller)
}

// UpdateAndDistributeToken is UpdateAndDistributeNative for a token.
func (r *Registry) UpdateAndDistributeToken(split splitcfg.Address, token splitcfg.Address, cfg splitcfg.SplitConfig, distributor, caller splitcfg.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updateAndDistributeLocked(split, cfg, splitcfg.TokenAsset(token), distributor, caller)
}

func (r *Registry) updateAndDistributeLocked(split splitcfg.Address, cfg splitcfg.SplitConfig, asset splitcfg.Asset, distributor, caller splitcfg.Address) error {
	rec, err := r.store.GetSplit(split)
	if err != nil {
		return err
	}
	if err := r.updateLocked(rec, caller, cfg); err != nil {
		return err
	}
	// The commitment now matches cfg by construction, so the distribution
	// cannot fail its hash check and the pair commits as one.
	return r.distributeLocked(rec, cfg, asset, distributor, caller)
}

// distributeLocked is the distribution engine. Callers hold r.mu.
//
// The combined amount is the wallet sweep plus the split's own ledger
// balance. One unit stays retained; the distributor fee comes off the top
// of the rest; recipients are credited floor shares of the remainder; and
// truncation dust stays in the split's own entry, folded into the next
// distribution.
func (r *Registry) distributeLocked(rec *SplitRecord, cfg splitcfg.SplitConfig, asset splitcfg.Asset, distributor, caller splitcfg.Address) error {
	if err := splitcfg.Validate(cfg); err != nil {
		return err
	}
	if cfg.Hash() != rec.Hash {
		return fmt.Errorf("%w: split %s: supplied %s, stored %s",
			ErrInvalidHash, rec.Address, cfg.Hash(), rec.Hash)
	}

	wallet := r.walletLocked(rec.Address)
	swept := wallet.Balance(asset)
	held, err := r.ledger.Balance(rec.Address, asset)
	if err != nil {
		return err
	}
	combined := swept + held

	if combined <= ledger.Retained {
		// Nothing distributable. Still fold any swept funds into the
		// ledger so the wallet does not hold dust forever.
		if swept > 0 {
			if err := r.ledger.Apply([]ledger.Entry{{Account: rec.Address, Asset: asset, Amount: combined}}); err != nil {
				return err
			}
			wallet.Sweep(asset)
		}
		r.events.Emit(Event{
			Type:        EventDistribute,
			Split:       rec.Address,
			Asset:       asset,
			Amount:      0,
			Distributor: distributor,
		})
		return nil
	}

	distributable := combined - ledger.Retained

	feeRecipient := distributor
	if feeRecipient.IsZero() {
		feeRecipient = r.feePolicy(caller)
	}
	fee := mulScale(distributable, uint64(cfg.DistributorFee))
	remaining := distributable - fee

	credits := make([]ledger.Entry, 0, len(cfg.Accounts)+1)
	var paid uint64
	for i, acct := range cfg.Accounts {
		share := mulScale(remaining, uint64(cfg.Allocations[i]))
		if share == 0 {
			continue
		}
		credits = append(credits, ledger.Entry{Account: acct, Asset: asset, Amount: share})
		paid += share
	}
	if fee > 0 {
		credits = append(credits, ledger.Entry{Account: feeRecipient, Asset: asset, Amount: fee})
	}

	// residual = retained unit + truncation dust, < len(accounts)+Retained.
	residual := combined - paid - fee
	if err := r.ledger.ApplyDistribution(rec.Address, asset, residual, credits); err != nil {
		return err
	}
	wallet.Sweep(asset)

	r.events.Emit(Event{
		Type:        EventDistribute,
		Split:       rec.Address,
		Asset:       asset,
		Amount:      distributable,
		Distributor: feeRecipient,
	})
	return nil
}
