package splits

import "github.com/splitsorg/libsplits-go/splitcfg"

// FeePolicy chooses the distributor-fee recipient when the caller passes
// the zero distributor address. The fee is always computed and credited;
// the policy only decides who receives it.
type FeePolicy func(caller splitcfg.Address) splitcfg.Address

// CallerFeePolicy pays the fee to whoever triggered the distribution.
// This is the default.
func CallerFeePolicy(caller splitcfg.Address) splitcfg.Address {
	return caller
}

// Option configures a Registry.
type Option func(*Registry)

// WithEvents sets the sink receiving registry notifications.
func WithEvents(sink Sink) Option {
	return func(r *Registry) {
		if sink != nil {
			r.events = sink
		}
	}
}

// WithFeePolicy overrides the default distributor-fee recipient policy.
func WithFeePolicy(p FeePolicy) Option {
	return func(r *Registry) {
		if p != nil {
			r.feePolicy = p
		}
	}
}
