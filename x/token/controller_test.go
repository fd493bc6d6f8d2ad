package token

import (
	"testing"

	"github.com/easlabs/custody"
	"github.com/easlabs/custody/custodytest"
	"github.com/easlabs/custody/custodytest/assert"
	"github.com/easlabs/custody/errors"
	"github.com/easlabs/custody/store"
)

func newTestToken(t testing.TB, db custody.KVStore, ctrl *Controller) custody.Address {
	t.Helper()
	ledger, err := ctrl.Create(db, &TokenInfo{
		Metadata:     &custody.Metadata{Schema: 1},
		Name:         "EAS Token",
		Symbol:       "EAS",
		Decimals:     18,
		FaucetAmount: 100,
	})
	assert.Nil(t, err)
	return ledger
}

func TestCreateToken(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()

	first := newTestToken(t, db, ctrl)
	second := newTestToken(t, db, ctrl)
	if first.Equals(second) {
		t.Fatal("ledgers must have distinct addresses")
	}
	assert.Equal(t, LedgerCondition(custodytest.SequenceID(1)).Address(), first)

	info, err := ctrl.Token(db, first)
	assert.Nil(t, err)
	assert.Equal(t, "EAS", info.Symbol)
	assert.Equal(t, uint64(0), info.Supply)

	_, err = ctrl.Token(db, custodytest.NewCondition().Address())
	assert.IsErr(t, errors.ErrNotFound, err)

	_, err = ctrl.Create(db, &TokenInfo{
		Metadata: &custody.Metadata{Schema: 1},
		Name:     "x",
		Symbol:   "EAS",
	})
	assert.IsErr(t, errors.ErrInput, err)
}

func TestTransferFrom(t *testing.T) {
	owner := custodytest.NewCondition().Address()
	spender := custodytest.NewCondition().Address()
	recipient := custodytest.NewCondition().Address()

	cases := map[string]struct {
		mint          uint64
		allowance     uint64
		amount        uint64
		wantErr       *errors.Error
		wantOwner     uint64
		wantRecipient uint64
		wantAllowance uint64
	}{
		"exact allowance": {
			mint:          100,
			allowance:     10,
			amount:        10,
			wantOwner:     90,
			wantRecipient: 10,
			wantAllowance: 0,
		},
		"partial allowance": {
			mint:          100,
			allowance:     50,
			amount:        33,
			wantOwner:     67,
			wantRecipient: 33,
			wantAllowance: 17,
		},
		"no allowance": {
			mint:          100,
			amount:        10,
			wantErr:       ErrInsufficientAllowance,
			wantOwner:     100,
			wantAllowance: 0,
		},
		"allowance too low": {
			mint:          100,
			allowance:     9,
			amount:        10,
			wantErr:       ErrInsufficientAllowance,
			wantOwner:     100,
			wantAllowance: 9,
		},
		"allowance checked before balance": {
			mint:          0,
			allowance:     5,
			amount:        10,
			wantErr:       ErrInsufficientAllowance,
			wantAllowance: 5,
		},
		"balance too low": {
			mint:          5,
			allowance:     10,
			amount:        10,
			wantErr:       ErrInsufficientBalance,
			wantOwner:     5,
			wantAllowance: 10,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			ctrl := NewController()
			ledger := newTestToken(t, db, ctrl)

			assert.Nil(t, ctrl.Mint(db, ledger, owner, tc.mint))
			if tc.allowance > 0 {
				assert.Nil(t, ctrl.Approve(db, ledger, owner, spender, tc.allowance))
			}

			err := ctrl.TransferFrom(db, ledger, spender, owner, recipient, tc.amount)
			if tc.wantErr == nil {
				assert.Nil(t, err)
			} else {
				assert.IsErr(t, tc.wantErr, err)
			}

			got, err := ctrl.BalanceOf(db, ledger, owner)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantOwner, got)
			got, err = ctrl.BalanceOf(db, ledger, recipient)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantRecipient, got)
			got, err = ctrl.Allowance(db, ledger, owner, spender)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantAllowance, got)
		})
	}
}

func TestFaucetAndHoldings(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	ledger := newTestToken(t, db, ctrl)
	other := newTestToken(t, db, ctrl)
	account := custodytest.NewCondition().Address()

	amount, err := ctrl.Faucet(db, ledger, account)
	assert.Nil(t, err)
	assert.Equal(t, uint64(100), amount)
	_, err = ctrl.Faucet(db, ledger, account)
	assert.Nil(t, err)
	assert.Nil(t, ctrl.Mint(db, other, account, 7))

	balance, err := ctrl.BalanceOf(db, ledger, account)
	assert.Nil(t, err)
	assert.Equal(t, uint64(200), balance)

	info, err := ctrl.Token(db, ledger)
	assert.Nil(t, err)
	assert.Equal(t, uint64(200), info.Supply)

	holdings, err := ctrl.Holdings(db, account)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(holdings))

	err = ctrl.Transfer(db, ledger, account, other, 201)
	assert.IsErr(t, ErrInsufficientBalance, err)
	assert.Nil(t, ctrl.Transfer(db, ledger, account, other, 150))
	balance, err = ctrl.BalanceOf(db, ledger, account)
	assert.Nil(t, err)
	assert.Equal(t, uint64(50), balance)
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		amount   uint64
		decimals uint32
		want     string
	}{
		{amount: 33, decimals: 0, want: "33"},
		{amount: 1500, decimals: 3, want: "1.5"},
		{amount: 1, decimals: 18, want: "0.000000000000000001"},
		{amount: 10000000000000000000, decimals: 18, want: "10"},
		{amount: 0, decimals: 6, want: "0"},
	}
	for _, tc := range cases {
		if got := FormatAmount(tc.amount, tc.decimals); got != tc.want {
			t.Errorf("FormatAmount(%d, %d): want %q, got %q", tc.amount, tc.decimals, tc.want, got)
		}
	}
}
