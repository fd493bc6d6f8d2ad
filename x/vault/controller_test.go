package vault

import (
	"testing"

	"github.com/easlabs/custody"
	"github.com/easlabs/custody/custodytest"
	"github.com/easlabs/custody/custodytest/assert"
	"github.com/easlabs/custody/errors"
	"github.com/easlabs/custody/store"
	"github.com/easlabs/custody/x/avatar"
	"github.com/easlabs/custody/x/token"
)

const (
	escrowCost         = 10
	selfCustodyPayment = 33
)

// fixture is a store with one token ledger and one avatar collection.
type fixture struct {
	db     custody.CacheableKVStore
	tokens *token.Controller
	cats   *avatar.Controller
	ledger custody.Address
	col    custody.Address
	ctrl   *Controller
}

func newFixture(t testing.TB) *fixture {
	t.Helper()
	f := &fixture{
		db:     store.MemStore(),
		tokens: token.NewController(),
		cats:   avatar.NewController(),
	}
	var err error
	f.ledger, err = f.tokens.Create(f.db, &token.TokenInfo{
		Metadata:     &custody.Metadata{Schema: 1},
		Name:         "Ethereum Avatar Service",
		Symbol:       "EAS",
		Decimals:     18,
		FaucetAmount: 100,
	})
	assert.Nil(t, err)
	f.col, err = f.cats.CreateCollection(f.db, &avatar.Collection{
		Metadata: &custody.Metadata{Schema: 1},
		Name:     "EAS Cats",
		Symbol:   "EASC",
	})
	assert.Nil(t, err)
	f.ctrl = NewController(f.tokens, f.cats)
	return f
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	owner := custodytest.NewCondition().Address()

	v, err := f.ctrl.Create(f.db, owner, f.ledger, escrowCost)
	assert.Nil(t, err)
	assert.Equal(t, Condition(custodytest.SequenceID(1)).Address(), v.Address)
	assert.Equal(t, Inactive, v.Mode)
	assert.Equal(t, false, v.Active)
	assert.Equal(t, uint64(0), v.Deposited)

	got, err := f.ctrl.Vault(f.db, v.Address)
	assert.Nil(t, err)
	assert.Equal(t, owner, got.Owner)
	assert.Equal(t, f.ledger, got.Ledger)
	assert.Equal(t, uint64(escrowCost), got.EscrowCost)

	other, err := f.ctrl.Create(f.db, owner, f.ledger, escrowCost)
	assert.Nil(t, err)
	if other.Address.Equals(v.Address) {
		t.Fatal("vaults must have distinct addresses")
	}
	owned, err := f.ctrl.VaultsOf(f.db, owner)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(owned))

	_, err = f.ctrl.Vault(f.db, custodytest.NewCondition().Address())
	assert.IsErr(t, errors.ErrNotFound, err)

	_, err = f.ctrl.Create(f.db, owner, nil, escrowCost)
	assert.IsErr(t, errors.ErrInput, err)

	_, err = f.ctrl.Create(f.db, owner, f.ledger, 0)
	assert.IsErr(t, errors.ErrAmount, err)
}

func TestActivateWithEscrow(t *testing.T) {
	owner := custodytest.NewCondition().Address()
	stranger := custodytest.NewCondition().Address()

	cases := map[string]struct {
		allowance      uint64
		approveAvatar  bool
		caller         custody.Address
		emptyWallet    bool
		wantErr        *errors.Error
		wantBalance    uint64
		wantAvatarHeld bool
	}{
		"escrow succeeds": {
			allowance:      escrowCost,
			approveAvatar:  true,
			wantBalance:    100 - escrowCost,
			wantAvatarHeld: true,
		},
		"missing allowance is reported before the avatar": {
			allowance:   0,
			wantErr:     ErrInsufficientAllowance,
			wantBalance: 100,
		},
		"short allowance": {
			allowance:     escrowCost - 1,
			approveAvatar: true,
			wantErr:       ErrInsufficientAllowance,
			wantBalance:   100,
		},
		"allowance without funds": {
			allowance:     escrowCost,
			approveAvatar: true,
			emptyWallet:   true,
			wantErr:       errors.ErrInsufficientAmount,
		},
		"avatar not approved reverts the payment": {
			allowance:   escrowCost,
			wantErr:     avatar.ErrNotOwnerOrApproved,
			wantBalance: 100,
		},
		"only the owner can activate": {
			allowance:     escrowCost,
			approveAvatar: true,
			caller:        stranger,
			wantErr:       ErrNotVaultOwner,
			wantBalance:   100,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			v, err := f.ctrl.Create(f.db, owner, f.ledger, escrowCost)
			assert.Nil(t, err)

			if !tc.emptyWallet {
				_, err = f.tokens.Faucet(f.db, f.ledger, owner)
				assert.Nil(t, err)
			}
			assert.Nil(t, f.tokens.Approve(f.db, f.ledger, owner, v.Address, tc.allowance))
			id, err := f.cats.Mint(f.db, f.col, owner)
			assert.Nil(t, err)
			if tc.approveAvatar {
				assert.Nil(t, f.cats.Approve(f.db, f.col, owner, v.Address, id))
			}

			caller := tc.caller
			if caller == nil {
				caller = owner
			}
			_, err = f.ctrl.ActivateWithEscrow(f.db, caller, v.Address, f.col, id)
			assert.IsErr(t, tc.wantErr, err)

			balance, err := f.tokens.BalanceOf(f.db, f.ledger, owner)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantBalance, balance)

			avatarOwner, err := f.cats.OwnerOf(f.db, f.col, id)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantAvatarHeld, avatarOwner.Equals(v.Address))

			got, err := f.ctrl.Vault(f.db, v.Address)
			assert.Nil(t, err)
			if tc.wantErr != nil {
				assert.Equal(t, Inactive, got.Mode)
				assert.Equal(t, false, got.Active)
				assert.Equal(t, 0, len(got.AssetRegistry))
				return
			}
			assert.Equal(t, Escrow, got.Mode)
			assert.Equal(t, true, got.Active)
			assert.Equal(t, uint64(escrowCost), got.Deposited)
			assert.Equal(t, f.col, got.AssetRegistry)
			assert.Equal(t, id, got.AssetID)

			vaultBalance, err := f.tokens.BalanceOf(f.db, f.ledger, v.Address)
			assert.Nil(t, err)
			assert.Equal(t, uint64(escrowCost), vaultBalance)
		})
	}
}

func TestActivateWithSelfCustody(t *testing.T) {
	owner := custodytest.NewCondition().Address()
	other := custodytest.NewCondition().Address()

	cases := map[string]struct {
		mintTo      custody.Address
		allowance   uint64
		payment     uint64
		moveAsset   bool
		wantErr     *errors.Error
		wantBalance uint64
	}{
		"self custody succeeds": {
			mintTo:      owner,
			allowance:   selfCustodyPayment,
			payment:     selfCustodyPayment,
			wantBalance: 100 - selfCustodyPayment,
		},
		"self custody moving the avatar": {
			mintTo:      owner,
			allowance:   selfCustodyPayment,
			payment:     selfCustodyPayment,
			moveAsset:   true,
			wantBalance: 100 - selfCustodyPayment,
		},
		"avatar owned by someone else": {
			mintTo:      other,
			allowance:   selfCustodyPayment,
			payment:     selfCustodyPayment,
			wantErr:     ErrNotOwner,
			wantBalance: 100,
		},
		"insufficient allowance": {
			mintTo:      owner,
			allowance:   selfCustodyPayment - 1,
			payment:     selfCustodyPayment,
			wantErr:     ErrInsufficientAllowance,
			wantBalance: 100,
		},
		"payment exceeds balance": {
			mintTo:      owner,
			allowance:   1000,
			payment:     101,
			wantErr:     errors.ErrInsufficientAmount,
			wantBalance: 100,
		},
		"moving an avatar that is not approved reverts the payment": {
			mintTo:      owner,
			allowance:   selfCustodyPayment,
			payment:     selfCustodyPayment,
			moveAsset:   true,
			wantErr:     avatar.ErrNotOwnerOrApproved,
			wantBalance: 100,
		},
		"zero payment": {
			mintTo:      owner,
			payment:     0,
			wantErr:     errors.ErrAmount,
			wantBalance: 100,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			v, err := f.ctrl.Create(f.db, owner, f.ledger, escrowCost)
			assert.Nil(t, err)

			_, err = f.tokens.Faucet(f.db, f.ledger, owner)
			assert.Nil(t, err)
			assert.Nil(t, f.tokens.Approve(f.db, f.ledger, owner, v.Address, tc.allowance))
			id, err := f.cats.Mint(f.db, f.col, tc.mintTo)
			assert.Nil(t, err)
			if tc.moveAsset && tc.wantErr == nil {
				assert.Nil(t, f.cats.Approve(f.db, f.col, owner, v.Address, id))
			}

			_, err = f.ctrl.ActivateWithSelfCustody(f.db, owner, v.Address, f.col, id, tc.payment, tc.moveAsset)
			assert.IsErr(t, tc.wantErr, err)

			balance, err := f.tokens.BalanceOf(f.db, f.ledger, owner)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantBalance, balance)

			got, err := f.ctrl.Vault(f.db, v.Address)
			assert.Nil(t, err)
			if tc.wantErr != nil {
				assert.Equal(t, Inactive, got.Mode)
				assert.Equal(t, false, got.Active)
				return
			}
			assert.Equal(t, SelfCustody, got.Mode)
			assert.Equal(t, true, got.Active)
			assert.Equal(t, tc.payment, got.Deposited)
			assert.Equal(t, tc.moveAsset, got.AssetHeld)

			avatarOwner, err := f.cats.OwnerOf(f.db, f.col, id)
			assert.Nil(t, err)
			assert.Equal(t, tc.moveAsset, avatarOwner.Equals(v.Address))
		})
	}
}

func TestApprovalIsNotOwnership(t *testing.T) {
	f := newFixture(t)
	owner := custodytest.NewCondition().Address()
	minter := custodytest.NewCondition().Address()

	v, err := f.ctrl.Create(f.db, owner, f.ledger, escrowCost)
	assert.Nil(t, err)
	_, err = f.tokens.Faucet(f.db, f.ledger, owner)
	assert.Nil(t, err)
	assert.Nil(t, f.tokens.Approve(f.db, f.ledger, owner, v.Address, selfCustodyPayment))

	id, err := f.cats.Mint(f.db, f.col, minter)
	assert.Nil(t, err)
	assert.Nil(t, f.cats.Approve(f.db, f.col, minter, owner, id))

	_, err = f.ctrl.ActivateWithSelfCustody(f.db, owner, v.Address, f.col, id, selfCustodyPayment, false)
	assert.IsErr(t, ErrNotOwner, err)

	allowance, err := f.tokens.Allowance(f.db, f.ledger, owner, v.Address)
	assert.Nil(t, err)
	assert.Equal(t, uint64(selfCustodyPayment), allowance)
}

func TestActivateOnlyOnce(t *testing.T) {
	f := newFixture(t)
	owner := custodytest.NewCondition().Address()

	v, err := f.ctrl.Create(f.db, owner, f.ledger, escrowCost)
	assert.Nil(t, err)
	_, err = f.tokens.Faucet(f.db, f.ledger, owner)
	assert.Nil(t, err)
	assert.Nil(t, f.tokens.Approve(f.db, f.ledger, owner, v.Address, 100))

	first, err := f.cats.Mint(f.db, f.col, owner)
	assert.Nil(t, err)
	second, err := f.cats.Mint(f.db, f.col, owner)
	assert.Nil(t, err)

	_, err = f.ctrl.ActivateWithSelfCustody(f.db, owner, v.Address, f.col, first, selfCustodyPayment, false)
	assert.Nil(t, err)

	assert.Nil(t, f.cats.Approve(f.db, f.col, owner, v.Address, second))
	_, err = f.ctrl.ActivateWithEscrow(f.db, owner, v.Address, f.col, second)
	assert.IsErr(t, ErrAlreadyActive, err)
	_, err = f.ctrl.ActivateWithSelfCustody(f.db, owner, v.Address, f.col, second, selfCustodyPayment, false)
	assert.IsErr(t, ErrAlreadyActive, err)

	got, err := f.ctrl.Vault(f.db, v.Address)
	assert.Nil(t, err)
	assert.Equal(t, SelfCustody, got.Mode)
	assert.Equal(t, first, got.AssetID)
}

func TestVaultValidate(t *testing.T) {
	addr := custodytest.NewCondition().Address()
	meta := &custody.Metadata{Schema: 1}

	inactive := func() Vault {
		return Vault{Metadata: meta, Address: addr, Owner: addr, Ledger: addr, EscrowCost: escrowCost}
	}
	active := func(mode Mode, deposited uint64) Vault {
		v := inactive()
		v.AssetRegistry = addr
		v.Deposited = deposited
		v.Active = true
		v.Mode = mode
		v.AssetHeld = mode == Escrow
		return v
	}

	cases := map[string]struct {
		vault   Vault
		wantErr *errors.Error
	}{
		"inactive": {
			vault: inactive(),
		},
		"escrow": {
			vault: active(Escrow, escrowCost),
		},
		"self custody": {
			vault: active(SelfCustody, selfCustodyPayment),
		},
		"zero escrow cost": {
			vault: func() Vault {
				v := inactive()
				v.EscrowCost = 0
				return v
			}(),
			wantErr: errors.ErrAmount,
		},
		"active without deposit": {
			vault:   active(Escrow, 0),
			wantErr: errors.ErrState,
		},
		"active without mode": {
			vault:   active(Inactive, escrowCost),
			wantErr: errors.ErrState,
		},
		"mode without active flag": {
			vault: func() Vault {
				v := inactive()
				v.AssetRegistry = addr
				v.Mode = SelfCustody
				return v
			}(),
			wantErr: errors.ErrState,
		},
		"active without asset": {
			vault: func() Vault {
				v := active(SelfCustody, selfCustodyPayment)
				v.AssetRegistry = nil
				return v
			}(),
			wantErr: errors.ErrInput,
		},
		"inactive with deposit": {
			vault: func() Vault {
				v := inactive()
				v.Deposited = 1
				return v
			}(),
			wantErr: errors.ErrState,
		},
		"escrow not holding the asset": {
			vault: func() Vault {
				v := active(Escrow, escrowCost)
				v.AssetHeld = false
				return v
			}(),
			wantErr: errors.ErrState,
		},
		"unknown mode": {
			vault:   active(7, escrowCost),
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.IsErr(t, tc.wantErr, tc.vault.Validate())
		})
	}
}
