package token

import (
	"regexp"

	"github.com/easlabs/custody"
	"github.com/easlabs/custody/errors"
	"github.com/easlabs/custody/orm"
)

var (
	isTokenName   = regexp.MustCompile(`^[A-Za-z0-9 \-_:]{3,32}$`).MatchString
	isTokenSymbol = regexp.MustCompile(`^[A-Z0-9]{2,8}$`).MatchString
)

const maxDecimals = 18

// TokenInfo describes a single ledger.
type TokenInfo struct {
	Metadata     *custody.Metadata `json:"metadata"`
	Name         string            `json:"name"`
	Symbol       string            `json:"symbol"`
	Decimals     uint32            `json:"decimals"`
	FaucetAmount uint64            `json:"faucet_amount"`
	Supply       uint64            `json:"supply"`
}

var _ orm.Model = (*TokenInfo)(nil)

func (t *TokenInfo) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", t.Metadata.Validate())
	if !isTokenName(t.Name) {
		errs = errors.Append(errs, errors.Field("Name", errors.ErrInput, "invalid token name %q", t.Name))
	}
	if !isTokenSymbol(t.Symbol) {
		errs = errors.Append(errs, errors.Field("Symbol", errors.ErrInput, "invalid token symbol %q", t.Symbol))
	}
	if t.Decimals > maxDecimals {
		errs = errors.Append(errs, errors.Field("Decimals", errors.ErrInput, "must not be greater than %d", maxDecimals))
	}
	return errs
}

func (t *TokenInfo) Copy() orm.Model {
	cpy := *t
	cpy.Metadata = t.Metadata.Copy()
	return &cpy
}

func (t *TokenInfo) Marshal() ([]byte, error) {
	return custody.Encode(t)
}

func (t *TokenInfo) Unmarshal(raw []byte) error {
	return custody.Decode(raw, t)
}

// Balance is the amount of a token held by an account.
type Balance struct {
	Metadata *custody.Metadata `json:"metadata"`
	Ledger   custody.Address   `json:"ledger"`
	Account  custody.Address   `json:"account"`
	Amount   uint64            `json:"amount"`
}

var _ orm.Model = (*Balance)(nil)

func (b *Balance) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", b.Metadata.Validate())
	errs = errors.AppendField(errs, "Ledger", b.Ledger.Validate())
	errs = errors.AppendField(errs, "Account", b.Account.Validate())
	return errs
}

func (b *Balance) Copy() orm.Model {
	return &Balance{
		Metadata: b.Metadata.Copy(),
		Ledger:   b.Ledger.Clone(),
		Account:  b.Account.Clone(),
		Amount:   b.Amount,
	}
}

func (b *Balance) Marshal() ([]byte, error) {
	return custody.Encode(b)
}

func (b *Balance) Unmarshal(raw []byte) error {
	return custody.Decode(raw, b)
}

// Allowance is the amount the spender may move out of the owner's balance.
type Allowance struct {
	Metadata *custody.Metadata `json:"metadata"`
	Ledger   custody.Address   `json:"ledger"`
	Owner    custody.Address   `json:"owner"`
	Spender  custody.Address   `json:"spender"`
	Amount   uint64            `json:"amount"`
}

var _ orm.Model = (*Allowance)(nil)

func (a *Allowance) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", a.Metadata.Validate())
	errs = errors.AppendField(errs, "Ledger", a.Ledger.Validate())
	errs = errors.AppendField(errs, "Owner", a.Owner.Validate())
	errs = errors.AppendField(errs, "Spender", a.Spender.Validate())
	return errs
}

func (a *Allowance) Copy() orm.Model {
	return &Allowance{
		Metadata: a.Metadata.Copy(),
		Ledger:   a.Ledger.Clone(),
		Owner:    a.Owner.Clone(),
		Spender:  a.Spender.Clone(),
		Amount:   a.Amount,
	}
}

func (a *Allowance) Marshal() ([]byte, error) {
	return custody.Encode(a)
}

func (a *Allowance) Unmarshal(raw []byte) error {
	return custody.Decode(raw, a)
}

// LedgerCondition returns the condition of a ledger created with given
// sequence value.
func LedgerCondition(key []byte) custody.Condition {
	return custody.NewCondition("token", "seq", key)
}

var tokenSeq = orm.NewSequence("token", "id")

// NewTokenBucket returns a bucket holding TokenInfo keyed by ledger address.
func NewTokenBucket() orm.ModelBucket {
	return orm.NewModelBucket("token", &TokenInfo{})
}

// NewBalanceBucket returns a bucket holding balances keyed by ledger and
// account address. Balances are indexed by account.
func NewBalanceBucket() orm.ModelBucket {
	return orm.NewModelBucket("balance", &Balance{},
		orm.WithIndex("account", balanceAccount, false),
	)
}

// NewAllowanceBucket returns a bucket holding allowances keyed by ledger,
// owner and spender address.
func NewAllowanceBucket() orm.ModelBucket {
	return orm.NewModelBucket("allowance", &Allowance{})
}

func balanceAccount(obj orm.Object) ([]byte, error) {
	if obj == nil {
		return nil, errors.Wrap(errors.ErrHuman, "cannot take index of nil")
	}
	b, ok := obj.Value().(*Balance)
	if !ok {
		return nil, errors.Wrapf(errors.ErrHuman, "can only take index of Balance, got %T", obj.Value())
	}
	return b.Account, nil
}

func balanceKey(ledger, account custody.Address) []byte {
	key := make([]byte, 0, len(ledger)+len(account))
	key = append(key, ledger...)
	return append(key, account...)
}

func allowanceKey(ledger, owner, spender custody.Address) []byte {
	key := make([]byte, 0, len(ledger)+len(owner)+len(spender))
	key = append(key, ledger...)
	key = append(key, owner...)
	return append(key, spender...)
}
