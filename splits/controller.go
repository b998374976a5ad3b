package splits

import (
	"fmt"

	"github.com/splitsorg/libsplits-go/splitcfg"
)

// requireController checks that caller is the split's current controller.
// Immutable splits have no controller, so every caller fails.
func requireController(rec *SplitRecord, caller splitcfg.Address) error {
	if caller.IsZero() || caller != rec.Controller {
		return fmt.Errorf("%w: caller %s is not the controller of %s",
			ErrUnauthorized, caller, rec.Address)
	}
	return nil
}

// TransferControl begins a two-phase control handoff: the new controller
// gains nothing until it accepts. Only the current controller may
// initiate; the target must not be the zero address.
func (r *Registry) TransferControl(split splitcfg.Address, caller splitcfg.Address, newController splitcfg.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, err := r.store.GetSplit(split)
	if err != nil {
		return err
	}
	if err := requireController(rec, caller); err != nil {
		return err
	}
	if newController.IsZero() {
		return ErrInvalidNewController
	}

	rec.PendingController = newController
	if err := r.store.UpdateSplit(rec); err != nil {
		return err
	}

	r.events.Emit(Event{
		Type:              EventInitiateControlTransfer,
		Split:             split,
		Controller:        rec.Controller,
		PendingController: newController,
	})
	return nil
}

// CancelControlTransfer discards any pending handoff. Only the current
// controller may cancel.
func (r *Registry) CancelControlTransfer(split splitcfg.Address, caller splitcfg.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, err := r.store.GetSplit(split)
	if err != nil {
		return err
	}
	if err := requireController(rec, caller); err != nil {
		return err
	}

	rec.PendingController = splitcfg.Address{}
	if err := r.store.UpdateSplit(rec); err != nil {
		return err
	}

	r.events.Emit(Event{
		Type:       EventCancelControlTransfer,
		Split:      split,
		Controller: rec.Controller,
	})
	return nil
}

// AcceptControl completes a pending handoff. Only the pending controller
// may accept; anyone else fails with ErrUnauthorized.
func (r *Registry) AcceptControl(split splitcfg.Address, caller splitcfg.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, err := r.store.GetSplit(split)
	if err != nil {
		return err
	}
	if caller.IsZero() || caller != rec.PendingController {
		return fmt.Errorf("%w: caller %s is not the pending controller of %s",
			ErrUnauthorized, caller, split)
	}

	previous := rec.Controller
	rec.Controller = caller
	rec.PendingController = splitcfg.Address{}
	if err := r.store.UpdateSplit(rec); err != nil {
		return err
	}

	r.events.Emit(Event{
		Type:               EventControlTransfer,
		Split:              split,
		PreviousController: previous,
		Controller:         caller,
	})
	return nil
}

// MakeSplitImmutable permanently gives up control of the split, discarding
// any pending handoff. Terminal: no operation can restore a controller.
func (r *Registry) MakeSplitImmutable(split splitcfg.Address, caller splitcfg.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, err := r.store.GetSplit(split)
	if err != nil {
		return err
	}
	if err := requireController(rec, caller); err != nil {
		return err
	}

	previous := rec.Controller
	rec.Controller = splitcfg.Address{}
	rec.PendingController = splitcfg.Address{}
	if err := r.store.UpdateSplit(rec); err != nil {
		return err
	}

	r.events.Emit(Event{
		Type:               EventMakeSplitImmutable,
		Split:              split,
		PreviousController: previous,
	})
	return nil
}
