package server

import (
	"encoding/json"
	"flag"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/tendermint/tendermint/libs/log"

	"github.com/easlabs/custody"
	"github.com/easlabs/custody/errors"
)

const (
	flagChainID = "chain_id"
)

// GenOptions can parse command-line and flag to generate the app_state of
// the genesis file. This is application-specific.
type GenOptions func(args []string) (json.RawMessage, error)

// GenesisPath returns where the genesis file of given home directory is
// stored. This is the same location tendermint uses.
func GenesisPath(home string) string {
	return filepath.Join(home, "config", "genesis.json")
}

// InitCmd will initialize the genesis file with the proper app_state. If
// a genesis file exists already (for example created by tendermint init)
// only its app_state is replaced.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	var chainID string
	initFlags := flag.NewFlagSet("init", flag.ExitOnError)
	initFlags.StringVar(&chainID, flagChainID, "custody-dev", "chain id used when a new genesis file is created")
	if err := initFlags.Parse(args); err != nil {
		return err
	}
	if !custody.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "invalid chain id %q", chainID)
	}

	options, err := gen(initFlags.Args())
	if err != nil {
		return err
	}

	genFile := GenesisPath(home)
	if !fileExists(genFile) {
		if err := os.MkdirAll(filepath.Dir(genFile), 0755); err != nil {
			return errors.Wrap(errors.ErrInput, err.Error())
		}
		raw, err := json.Marshal(map[string]string{"chain_id": chainID})
		if err != nil {
			return errors.Wrap(errors.ErrInput, err.Error())
		}
		if err := ioutil.WriteFile(genFile, raw, 0600); err != nil {
			return errors.Wrap(errors.ErrInput, err.Error())
		}
		logger.Info("Generated genesis file", "path", genFile, "chain_id", chainID)
	} else {
		logger.Info("Found genesis file", "path", genFile)
	}
	return addGenesisOptions(genFile, options)
}

func fileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return !os.IsNotExist(err)
}

// GenesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type GenesisDoc map[string]json.RawMessage

func addGenesisOptions(filename string, options json.RawMessage) error {
	bz, err := ioutil.ReadFile(filename)
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	var doc GenesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot parse genesis: %s", err)
	}

	doc["app_state"] = options
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return ioutil.WriteFile(filename, out, 0600)
}

// LoadGenesis reads the chain id and the raw app_state from a genesis file.
func LoadGenesis(filename string) (string, json.RawMessage, error) {
	bz, err := ioutil.ReadFile(filename)
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	var doc struct {
		ChainID  string          `json:"chain_id"`
		AppState json.RawMessage `json:"app_state"`
	}
	if err := json.Unmarshal(bz, &doc); err != nil {
		return "", nil, errors.Wrapf(errors.ErrInput, "cannot parse genesis: %s", err)
	}
	if !custody.IsValidChainID(doc.ChainID) {
		return "", nil, errors.Wrapf(errors.ErrInput, "invalid chain id %q", doc.ChainID)
	}
	return doc.ChainID, doc.AppState, nil
}
