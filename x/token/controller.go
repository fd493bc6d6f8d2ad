package token

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/easlabs/custody"
	"github.com/easlabs/custody/errors"
	"github.com/easlabs/custody/orm"
	"github.com/easlabs/custody/x"
)

// Controller manages token ledgers, balances and allowances.
type Controller struct {
	tokens     orm.ModelBucket
	balances   orm.ModelBucket
	allowances orm.ModelBucket
}

// NewController returns a controller using the default buckets.
func NewController() *Controller {
	return &Controller{
		tokens:     NewTokenBucket(),
		balances:   NewBalanceBucket(),
		allowances: NewAllowanceBucket(),
	}
}

// Create stores a new ledger and returns its address.
func (c *Controller) Create(db custody.KVStore, info *TokenInfo) (custody.Address, error) {
	if err := info.Validate(); err != nil {
		return nil, errors.Wrap(err, "token info")
	}
	key, err := tokenSeq.NextVal(db)
	if err != nil {
		return nil, errors.Wrap(err, "cannot acquire key")
	}
	addr := LedgerCondition(key).Address()
	if _, err := c.tokens.Put(db, addr, info); err != nil {
		return nil, errors.Wrap(err, "cannot store token")
	}
	return addr, nil
}

// Token returns the information of the ledger under the given address.
func (c *Controller) Token(db custody.ReadOnlyKVStore, ledger custody.Address) (*TokenInfo, error) {
	var info TokenInfo
	if err := c.tokens.One(db, ledger, &info); err != nil {
		return nil, errors.Wrapf(err, "ledger %s", ledger)
	}
	return &info, nil
}

// BalanceOf returns the amount held by the account. Unknown accounts hold
// nothing.
func (c *Controller) BalanceOf(db custody.ReadOnlyKVStore, ledger, account custody.Address) (uint64, error) {
	var b Balance
	switch err := c.balances.One(db, balanceKey(ledger, account), &b); {
	case err == nil:
		return b.Amount, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, err
	}
}

// Allowance returns the amount spender is allowed to move on behalf of the
// owner.
func (c *Controller) Allowance(db custody.ReadOnlyKVStore, ledger, owner, spender custody.Address) (uint64, error) {
	var a Allowance
	switch err := c.allowances.One(db, allowanceKey(ledger, owner, spender), &a); {
	case err == nil:
		return a.Amount, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, err
	}
}

// Approve sets the allowance of the spender, replacing any previous value.
func (c *Controller) Approve(db custody.KVStore, ledger, owner, spender custody.Address, amount uint64) error {
	if _, err := c.Token(db, ledger); err != nil {
		return err
	}
	a := &Allowance{
		Metadata: &custody.Metadata{Schema: 1},
		Ledger:   ledger,
		Owner:    owner,
		Spender:  spender,
		Amount:   amount,
	}
	_, err := c.allowances.Put(db, allowanceKey(ledger, owner, spender), a)
	return err
}

// Transfer moves amount from one account to another.
func (c *Controller) Transfer(db custody.KVStore, ledger, from, to custody.Address, amount uint64) error {
	if _, err := c.Token(db, ledger); err != nil {
		return err
	}
	return c.move(db, ledger, from, to, amount)
}

// TransferFrom moves amount from the owner to the recipient using the
// allowance granted to the spender. The allowance is checked before the
// balance and is decreased by the moved amount.
func (c *Controller) TransferFrom(db custody.KVStore, ledger, spender, owner, recipient custody.Address, amount uint64) error {
	if _, err := c.Token(db, ledger); err != nil {
		return err
	}
	allowed, err := c.Allowance(db, ledger, owner, spender)
	if err != nil {
		return err
	}
	if allowed < amount {
		return errors.Wrapf(ErrInsufficientAllowance, "allowance %d, requested %d", allowed, amount)
	}
	balance, err := c.BalanceOf(db, ledger, owner)
	if err != nil {
		return err
	}
	if balance < amount {
		return errors.Wrapf(ErrInsufficientBalance, "balance %d, requested %d", balance, amount)
	}

	a := &Allowance{
		Metadata: &custody.Metadata{Schema: 1},
		Ledger:   ledger,
		Owner:    owner,
		Spender:  spender,
		Amount:   allowed - amount,
	}
	if _, err := c.allowances.Put(db, allowanceKey(ledger, owner, spender), a); err != nil {
		return errors.Wrap(err, "cannot store allowance")
	}
	return c.move(db, ledger, owner, recipient, amount)
}

// Mint creates new tokens on the account and increases the supply.
func (c *Controller) Mint(db custody.KVStore, ledger, to custody.Address, amount uint64) error {
	info, err := c.Token(db, ledger)
	if err != nil {
		return err
	}
	if info.Supply, err = x.SafeAdd(info.Supply, amount); err != nil {
		return errors.Wrap(err, "supply")
	}
	if _, err := c.tokens.Put(db, ledger, info); err != nil {
		return errors.Wrap(err, "cannot store token")
	}
	balance, err := c.BalanceOf(db, ledger, to)
	if err != nil {
		return err
	}
	if balance, err = x.SafeAdd(balance, amount); err != nil {
		return errors.Wrap(err, "balance")
	}
	return c.setBalance(db, ledger, to, balance)
}

// Faucet mints the configured faucet amount to the account and returns it.
func (c *Controller) Faucet(db custody.KVStore, ledger, to custody.Address) (uint64, error) {
	info, err := c.Token(db, ledger)
	if err != nil {
		return 0, err
	}
	if info.FaucetAmount == 0 {
		return 0, errors.Wrap(errors.ErrState, "faucet disabled")
	}
	if err := c.Mint(db, ledger, to, info.FaucetAmount); err != nil {
		return 0, err
	}
	return info.FaucetAmount, nil
}

// Holdings returns all balances of the account, across all ledgers.
func (c *Controller) Holdings(db custody.ReadOnlyKVStore, account custody.Address) ([]Balance, error) {
	var balances []Balance
	if _, err := c.balances.ByIndex(db, "account", account, &balances); err != nil {
		return nil, err
	}
	return balances, nil
}

func (c *Controller) move(db custody.KVStore, ledger, from, to custody.Address, amount uint64) error {
	src, err := c.BalanceOf(db, ledger, from)
	if err != nil {
		return err
	}
	if src < amount {
		return errors.Wrapf(ErrInsufficientBalance, "balance %d, requested %d", src, amount)
	}
	if err := c.setBalance(db, ledger, from, src-amount); err != nil {
		return err
	}
	dst, err := c.BalanceOf(db, ledger, to)
	if err != nil {
		return err
	}
	if dst, err = x.SafeAdd(dst, amount); err != nil {
		return errors.Wrap(err, "recipient balance")
	}
	return c.setBalance(db, ledger, to, dst)
}

func (c *Controller) setBalance(db custody.KVStore, ledger, account custody.Address, amount uint64) error {
	b := &Balance{
		Metadata: &custody.Metadata{Schema: 1},
		Ledger:   ledger,
		Account:  account,
		Amount:   amount,
	}
	if _, err := c.balances.Put(db, balanceKey(ledger, account), b); err != nil {
		return errors.Wrap(err, "cannot store balance")
	}
	return nil
}

// FormatAmount renders an amount of base units as a decimal number using
// the number of decimals of the token.
func FormatAmount(amount uint64, decimals uint32) string {
	v := new(big.Int).SetUint64(amount)
	return decimal.NewFromBigInt(v, -int32(decimals)).String()
}
