package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/easlabs/custody"
	"github.com/easlabs/custody/app"
	custodyapp "github.com/easlabs/custody/cmd/custodyd/app"
	"github.com/easlabs/custody/commands/server"
	"github.com/easlabs/custody/crypto"
	"github.com/easlabs/custody/errors"
	"github.com/easlabs/custody/orm"
	"github.com/easlabs/custody/x/avatar"
	"github.com/easlabs/custody/x/registry"
	"github.com/easlabs/custody/x/sigs"
	"github.com/easlabs/custody/x/token"
	"github.com/easlabs/custody/x/vault"
)

// keysCmd creates a new private key under the given file, unless one
// exists already, and prints the address it controls.
func keysCmd(out io.Writer, args []string) error {
	if len(args) != 1 {
		return errors.Wrap(errors.ErrInput, "usage: keys <key file>")
	}
	path := args[0]

	var key *crypto.PrivateKey
	if _, err := os.Stat(path); err == nil {
		if key, err = loadKey(path); err != nil {
			return err
		}
	} else {
		key = crypto.GenPrivKeyEd25519()
		raw, err := json.Marshal(key)
		if err != nil {
			return errors.Wrap(errors.ErrInput, err.Error())
		}
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return errors.Wrap(errors.ErrInput, err.Error())
		}
		if err := ioutil.WriteFile(path, raw, 0600); err != nil {
			return errors.Wrap(errors.ErrInput, err.Error())
		}
	}

	addr := key.PublicKey().Address()
	b32, err := addr.Bech32()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "address: %s\nbech32:  %s\n", addr, b32)
	return nil
}

func loadKey(path string) (*crypto.PrivateKey, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	var key crypto.PrivateKey
	if err := json.Unmarshal(raw, &key); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot parse key file: %s", err)
	}
	if _, err := key.Sign(nil); err != nil {
		return nil, err
	}
	return &key, nil
}

// openApp opens the application stored under home. A fresh state is
// initialized from the genesis file first.
func openApp(logger log.Logger, home string) (myApp app.BaseApp, err error) {
	myApp, err = custodyapp.Application("custody", custodyapp.Stack(), custodyapp.TxDecoder,
		filepath.Join(home, "custody.db"), logger, false)
	if err != nil {
		return myApp, err
	}
	if myApp.GetChainID() != "" {
		return myApp, nil
	}

	chainID, appState, err := server.LoadGenesis(server.GenesisPath(home))
	if err != nil {
		return myApp, errors.Wrap(err, "state is not initialized")
	}
	// Initialization failures are reported by panic.
	defer errors.Recover(&err)
	myApp.InitChain(abci.RequestInitChain{ChainId: chainID, AppStateBytes: appState})
	return myApp, nil
}

type execResult struct {
	Height int64  `json:"height"`
	Code   uint32 `json:"code"`
	Log    string `json:"log,omitempty"`
	Data   string `json:"data,omitempty"`
}

// execCmd executes a single JSON encoded transaction in a new block. When
// a key file is given the transaction is signed with it first.
func execCmd(out io.Writer, logger log.Logger, home string, args []string) error {
	var keyPath string
	execFlags := flag.NewFlagSet("exec", flag.ExitOnError)
	execFlags.StringVar(&keyPath, "key", "", "private key file used to sign the transaction")
	if err := execFlags.Parse(args); err != nil {
		return err
	}
	if execFlags.NArg() != 1 {
		return errors.Wrap(errors.ErrInput, "usage: exec [-key FILE] <tx.json>")
	}

	raw, err := ioutil.ReadFile(execFlags.Arg(0))
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	var tx custodyapp.Tx
	if err := json.Unmarshal(raw, &tx); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot parse transaction: %s", err)
	}
	if _, err := tx.GetMsg(); err != nil {
		return err
	}

	myApp, err := openApp(logger, home)
	if err != nil {
		return err
	}
	chainID := myApp.GetChainID()

	if keyPath != "" {
		key, err := loadKey(keyPath)
		if err != nil {
			return err
		}
		nonce, err := sigs.NextNonce(myApp.DeliverStore(), key.PublicKey().Address())
		if err != nil {
			return err
		}
		sig, err := sigs.SignTx(key, &tx, chainID, nonce)
		if err != nil {
			return err
		}
		tx.Signatures = append(tx.Signatures, sig)
	}
	bz, err := tx.Marshal()
	if err != nil {
		return err
	}

	height := myApp.Info(abci.RequestInfo{}).LastBlockHeight + 1
	myApp.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: height, ChainID: chainID}})
	res := myApp.DeliverTx(bz)
	myApp.EndBlock(abci.RequestEndBlock{Height: height})
	myApp.Commit()

	return printJSON(out, execResult{
		Height: height,
		Code:   res.Code,
		Log:    res.Log,
		Data:   hex.EncodeToString(res.Data),
	})
}

// models maps the registered query buckets to the type stored in them.
var models = map[string]func() orm.Model{
	"auth":        func() orm.Model { return &sigs.UserData{} },
	"tokens":      func() orm.Model { return &token.TokenInfo{} },
	"balances":    func() orm.Model { return &token.Balance{} },
	"allowances":  func() orm.Model { return &token.Allowance{} },
	"collections": func() orm.Model { return &avatar.Collection{} },
	"avatars":     func() orm.Model { return &avatar.Avatar{} },
	"vaults":      func() orm.Model { return &vault.Vault{} },
	"registry":    func() orm.Model { return &registry.VaultRef{} },
}

type queryResult struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

// queryCmd prints the committed state found under a query path. The key
// may be an address or hex encoded.
func queryCmd(out io.Writer, logger log.Logger, home string, args []string) error {
	var prefix bool
	queryFlags := flag.NewFlagSet("query", flag.ExitOnError)
	queryFlags.BoolVar(&prefix, "prefix", false, "query all keys starting with the given key")
	if err := queryFlags.Parse(args); err != nil {
		return err
	}
	if n := queryFlags.NArg(); n < 1 || n > 2 {
		return errors.Wrap(errors.ErrInput, "usage: query [-prefix] <path> [key]")
	}
	path := queryFlags.Arg(0)
	key, err := parseQueryKey(queryFlags.Arg(1))
	if err != nil {
		return err
	}
	if prefix {
		path += "?" + custody.PrefixQueryMod
	}

	myApp, err := openApp(logger, home)
	if err != nil {
		return err
	}
	q := myApp.Query(abci.RequestQuery{Path: path, Data: key})
	if q.Code != 0 {
		return errors.Wrapf(errors.ErrInput, "query failed with code %d: %s", q.Code, q.Log)
	}

	var keys, values app.ResultSet
	if err := keys.Unmarshal(q.Key); err != nil {
		return err
	}
	if err := values.Unmarshal(q.Value); err != nil {
		return err
	}
	found, err := app.JoinResults(&keys, &values)
	if err != nil {
		return err
	}

	results := make([]queryResult, 0, len(found))
	for _, m := range found {
		value, err := decodeModel(path, m.Value)
		if err != nil {
			return err
		}
		results = append(results, queryResult{Key: hex.EncodeToString(m.Key), Value: value})
	}
	return printJSON(out, results)
}

func parseQueryKey(enc string) ([]byte, error) {
	if enc == "" {
		return nil, nil
	}
	if addr, err := custody.ParseAddress(enc); err == nil {
		return addr, nil
	}
	key, err := hex.DecodeString(enc)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "key %q is neither an address nor hex", enc)
	}
	return key, nil
}

// decodeModel returns the model stored under the query path, or the hex
// encoded value when the path is not known.
func decodeModel(path string, raw []byte) (interface{}, error) {
	path = strings.SplitN(path, "?", 2)[0]
	bucket := strings.SplitN(strings.TrimPrefix(path, "/"), "/", 2)[0]
	create, ok := models[bucket]
	if !ok {
		return hex.EncodeToString(raw), nil
	}
	m := create()
	if err := m.Unmarshal(raw); err != nil {
		return nil, errors.Wrapf(err, "cannot decode %s", bucket)
	}
	return m, nil
}

func printJSON(out io.Writer, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	_, err = fmt.Fprintln(out, string(raw))
	return err
}
