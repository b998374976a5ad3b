package ledger

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splitsorg/libsplits-go/splitcfg"
)

func makeAddr(seed byte) splitcfg.Address {
	var addr splitcfg.Address
	for i := range addr {
		addr[i] = seed
	}
	return addr
}

func makeToken(seed byte) splitcfg.Asset {
	return splitcfg.TokenAsset(makeAddr(seed))
}

// acceptAll is a transferrer that accepts everything and records calls.
type acceptAll struct {
	calls []Entry
}

func (a *acceptAll) Transfer(to splitcfg.Address, asset splitcfg.Asset, amount uint64) error {
	a.calls = append(a.calls, Entry{Account: to, Asset: asset, Amount: amount})
	return nil
}

// openStores returns a fresh store of every implementation, keyed by name.
func openStores(t *testing.T) map[string]Store {
	t.Helper()
	bolt, err := OpenBoltStore(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = bolt.Close() })
	return map[string]Store{
		"mem":  NewMemStore(),
		"bolt": bolt,
	}
}

func TestNew_NilStore(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrNilStore)
}

func TestCreditAndBalance(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			l, err := New(store)
			require.NoError(t, err)

			acct := makeAddr(0xA1)

			// Absent entries read as zero.
			bal, err := l.Balance(acct, splitcfg.Native)
			require.NoError(t, err)
			assert.Zero(t, bal)

			require.NoError(t, l.Credit(acct, splitcfg.Native, 500))
			require.NoError(t, l.Credit(acct, splitcfg.Native, 250))
			require.NoError(t, l.Credit(acct, splitcfg.Native, 0)) // no-op

			bal, err = l.Balance(acct, splitcfg.Native)
			require.NoError(t, err)
			assert.Equal(t, uint64(750), bal)

			// Token balances are independent keys.
			token := makeToken(0xDA)
			require.NoError(t, l.Credit(acct, token, 99))
			bal, err = l.Balance(acct, token)
			require.NoError(t, err)
			assert.Equal(t, uint64(99), bal)
		})
	}
}

func TestApply_Batch(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			l, err := New(store)
			require.NoError(t, err)

			entries := []Entry{
				{Account: makeAddr(0x01), Asset: splitcfg.Native, Amount: 10},
				{Account: makeAddr(0x02), Asset: splitcfg.Native, Amount: 20},
				{Account: makeAddr(0x01), Asset: makeToken(0xDA), Amount: 30},
			}
			require.NoError(t, l.Apply(entries))

			for _, e := range entries {
				bal, err := l.Balance(e.Account, e.Asset)
				require.NoError(t, err)
				assert.Equal(t, e.Amount, bal)
			}
		})
	}
}

func TestApplyDistribution(t *testing.T) {
	l, err := New(NewMemStore())
	require.NoError(t, err)

	split := makeAddr(0x50)
	require.NoError(t, l.Credit(split, splitcfg.Native, 1_000))
	require.NoError(t, l.Credit(makeAddr(0x01), splitcfg.Native, 5))

	err = l.ApplyDistribution(split, splitcfg.Native, 1, []Entry{
		{Account: makeAddr(0x01), Asset: splitcfg.Native, Amount: 600},
		{Account: makeAddr(0x02), Asset: splitcfg.Native, Amount: 399},
	})
	require.NoError(t, err)

	bal, _ := l.Balance(split, splitcfg.Native)
	assert.Equal(t, uint64(1), bal)
	bal, _ = l.Balance(makeAddr(0x01), splitcfg.Native)
	assert.Equal(t, uint64(605), bal) // prior credit preserved
	bal, _ = l.Balance(makeAddr(0x02), splitcfg.Native)
	assert.Equal(t, uint64(399), bal)
}

// A split that is one of its own recipients must receive its share on top
// of the residual, not instead of it.
func TestApplyDistribution_SelfRecipient(t *testing.T) {
	l, err := New(NewMemStore())
	require.NoError(t, err)

	split := makeAddr(0x50)
	require.NoError(t, l.Credit(split, splitcfg.Native, 100))

	err = l.ApplyDistribution(split, splitcfg.Native, 3, []Entry{
		{Account: split, Asset: splitcfg.Native, Amount: 40},
		{Account: makeAddr(0x02), Asset: splitcfg.Native, Amount: 57},
	})
	require.NoError(t, err)

	bal, _ := l.Balance(split, splitcfg.Native)
	assert.Equal(t, uint64(43), bal)
}

// Crediting N units across M calls then withdrawing once must move exactly
// N − Retained and leave Retained in the entry.
func TestWithdraw_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		credits []uint64
	}{
		{"single credit", []uint64{1_000_001}},
		{"many credits", []uint64{1, 2, 3, 4, 5, 985}},
		{"two units", []uint64{2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(NewMemStore())
			require.NoError(t, err)

			acct := makeAddr(0xA1)
			var total uint64
			for _, c := range tt.credits {
				require.NoError(t, l.Credit(acct, splitcfg.Native, c))
				total += c
			}

			tr := &acceptAll{}
			withdrawn, err := l.Withdraw(acct, []splitcfg.Asset{splitcfg.Native}, tr)
			require.NoError(t, err)

			assert.Equal(t, total-Retained, withdrawn[splitcfg.Native])
			require.Len(t, tr.calls, 1)
			assert.Equal(t, acct, tr.calls[0].Account)
			assert.Equal(t, total-Retained, tr.calls[0].Amount)

			bal, err := l.Balance(acct, splitcfg.Native)
			require.NoError(t, err)
			assert.Equal(t, uint64(Retained), bal)
		})
	}
}

func TestWithdraw_ZeroBalanceSkipped(t *testing.T) {
	l, err := New(NewMemStore())
	require.NoError(t, err)

	acct := makeAddr(0xA1)
	token := makeToken(0xDA)
	require.NoError(t, l.Credit(acct, token, 50))

	tr := &acceptAll{}
	withdrawn, err := l.Withdraw(acct, []splitcfg.Asset{splitcfg.Native, token}, tr)
	require.NoError(t, err)

	// Native had nothing: skipped, not an error, no transfer attempted.
	_, ok := withdrawn[splitcfg.Native]
	assert.False(t, ok)
	assert.Equal(t, uint64(49), withdrawn[token])
	require.Len(t, tr.calls, 1)
}

func TestWithdraw_OnlyRetainedLeft(t *testing.T) {
	l, err := New(NewMemStore())
	require.NoError(t, err)

	acct := makeAddr(0xA1)
	require.NoError(t, l.Credit(acct, splitcfg.Native, Retained))

	_, err = l.Withdraw(acct, []splitcfg.Asset{splitcfg.Native}, &acceptAll{})
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestWithdraw_TransferRejectedRollsBack(t *testing.T) {
	l, err := New(NewMemStore())
	require.NoError(t, err)

	acct := makeAddr(0xA1)
	require.NoError(t, l.Credit(acct, splitcfg.Native, 1_000))

	rejected := errors.New("receiver reverted")
	tr := &MockTransferrer{
		TransferFn: func(splitcfg.Address, splitcfg.Asset, uint64) error {
			return rejected
		},
	}

	_, err = l.Withdraw(acct, []splitcfg.Asset{splitcfg.Native}, tr)
	require.ErrorIs(t, err, ErrTransferFailed)
	assert.ErrorIs(t, err, rejected)

	// Entry restored to its pre-withdrawal value.
	bal, err := l.Balance(acct, splitcfg.Native)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000), bal)
}

func TestWithdraw_NilTransferrer(t *testing.T) {
	l, err := New(NewMemStore())
	require.NoError(t, err)

	_, err = l.Withdraw(makeAddr(0xA1), []splitcfg.Asset{splitcfg.Native}, nil)
	assert.ErrorIs(t, err, ErrNilTransferrer)
}

func TestBoltStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	store, err := OpenBoltStore(path)
	require.NoError(t, err)
	require.NoError(t, store.SetBalance(makeAddr(0x01), splitcfg.Native, 777))
	require.NoError(t, store.Close())

	store, err = OpenBoltStore(path)
	require.NoError(t, err)
	defer store.Close()

	bal, err := store.GetBalance(makeAddr(0x01), splitcfg.Native)
	require.NoError(t, err)
	assert.Equal(t, uint64(777), bal)
}
