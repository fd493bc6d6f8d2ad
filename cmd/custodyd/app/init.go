package app

import (
	"encoding/binary"
	"encoding/json"
	"path/filepath"

	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/easlabs/custody"
	"github.com/easlabs/custody/errors"
	"github.com/easlabs/custody/x/avatar"
	"github.com/easlabs/custody/x/registry"
	"github.com/easlabs/custody/x/token"
)

const (
	// DefaultEscrowCost is the escrow cost of vaults provisioned by a
	// freshly initialized chain.
	DefaultEscrowCost = 10

	// DefaultFaucetAmount is what the genesis token faucet hands out.
	DefaultFaucetAmount = 1000
)

// GenesisLedger returns the address of the n-th token created at genesis,
// counting from one.
func GenesisLedger(n uint64) custody.Address {
	return token.LedgerCondition(seq(n)).Address()
}

// GenesisCollection returns the address of the n-th avatar collection
// created at genesis, counting from one.
func GenesisCollection(n uint64) custody.Address {
	return avatar.CollectionCondition(seq(n)).Address()
}

func seq(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}

// GenInitOptions produces the application state of a development chain:
// one faucet enabled token, one avatar collection and the registry
// configuration bound to that token. The first argument is the address
// that administers the registry configuration.
func GenInitOptions(args []string) (json.RawMessage, error) {
	if len(args) == 0 {
		return nil, errors.Wrap(errors.ErrInput, "registry owner address required")
	}
	owner, err := custody.ParseAddress(args[0])
	if err != nil {
		return nil, errors.Wrap(err, "registry owner")
	}

	state := map[string]interface{}{
		"token": []token.GenesisToken{
			{
				Name:         "Ethereum Avatar Service",
				Symbol:       "EAS",
				Decimals:     18,
				FaucetAmount: DefaultFaucetAmount,
			},
		},
		"avatar": []avatar.GenesisCollection{
			{Name: "EAS Cats", Symbol: "EASC"},
		},
		"conf": map[string]interface{}{
			"registry": registry.Configuration{
				Metadata:   &custody.Metadata{Schema: 1},
				Owner:      owner,
				Ledger:     GenesisLedger(1),
				EscrowCost: DefaultEscrowCost,
			},
		},
	}
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}

// GenerateApp creates the application storing its state under home. An
// empty home keeps the state in memory.
func GenerateApp(home string, logger log.Logger, debug bool) (abci.Application, error) {
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "custody.db")
	}
	return Application("custody", Stack(), TxDecoder, dbPath, logger, debug)
}
