package token

import (
	"github.com/easlabs/custody"
	"github.com/easlabs/custody/errors"
)

const optKey = "token"

// GenesisToken is a ledger created at genesis together with its initial
// balances. Ledgers are created in order, so their addresses are
// predictable.
type GenesisToken struct {
	Name         string           `json:"name"`
	Symbol       string           `json:"symbol"`
	Decimals     uint32           `json:"decimals"`
	FaucetAmount uint64           `json:"faucet_amount"`
	Balances     []GenesisBalance `json:"balances"`
}

// GenesisBalance is an initial account balance.
type GenesisBalance struct {
	Address custody.Address `json:"address"`
	Amount  uint64          `json:"amount"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ custody.Initializer = Initializer{}

// FromGenesis will parse initial ledgers from genesis
// and save them to the database
func (Initializer) FromGenesis(opts custody.Options, db custody.KVStore) error {
	var tokens []GenesisToken
	if err := opts.ReadOptions(optKey, &tokens); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	ctrl := NewController()
	for i, t := range tokens {
		ledger, err := ctrl.Create(db, &TokenInfo{
			Metadata:     &custody.Metadata{Schema: 1},
			Name:         t.Name,
			Symbol:       t.Symbol,
			Decimals:     t.Decimals,
			FaucetAmount: t.FaucetAmount,
		})
		if err != nil {
			return errors.Wrapf(err, "token #%d", i)
		}
		for _, b := range t.Balances {
			if err := b.Address.Validate(); err != nil {
				return errors.Wrapf(err, "token #%d balance", i)
			}
			if err := ctrl.Mint(db, ledger, b.Address, b.Amount); err != nil {
				return errors.Wrapf(err, "token #%d balance", i)
			}
		}
	}
	return nil
}
