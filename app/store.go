package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/easlabs/custody"
	"github.com/easlabs/custody/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// StoreApp implements the state side of the ABCI application: genesis,
// block boundaries, commits and queries. BaseApp embeds it and adds the
// transaction side.
//
// The ABCI calls handled here carry no user input. A failure in them means
// the node state is unusable, so they panic instead of returning a code.
type StoreApp struct {
	logger log.Logger
	// name is reported by Info.
	name string

	store       *CommitStore
	initializer custody.Initializer
	queryRouter custody.QueryRouter

	// chainID is empty until genesis was loaded.
	chainID string
	// baseContext lives as long as the app, blockContext is rebuilt on
	// every BeginBlock.
	baseContext  custody.Context
	blockContext custody.Context

	// debug exposes internal error messages in responses.
	debug bool
}

// NewStoreApp loads the latest committed state of store. It panics when
// the state cannot be read.
func NewStoreApp(name string, store custody.CommitKVStore, queryRouter custody.QueryRouter, baseContext custody.Context) *StoreApp {
	s := &StoreApp{
		name:        name,
		store:       NewCommitStore(store),
		queryRouter: queryRouter,
		baseContext: baseContext,
	}
	s = s.WithLogger(log.NewNopLogger())

	if s.chainID = mustLoadChainID(s.DeliverStore()); s.chainID != "" {
		s.baseContext = custody.WithChainID(s.baseContext, s.chainID)
	}
	info, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	s.blockContext = custody.WithHeight(s.baseContext, info.Version)
	return s
}

// GetChainID returns the chain id, or "" before genesis.
func (s *StoreApp) GetChainID() string {
	return s.chainID
}

// WithInit sets the extensions loading their state from genesis.
func (s *StoreApp) WithInit(init custody.Initializer) *StoreApp {
	s.initializer = init
	return s
}

// WithDebug makes responses carry full error messages.
func (s *StoreApp) WithDebug(debug bool) *StoreApp {
	s.debug = debug
	return s
}

// WithLogger sets the logger of the app and of every context it builds.
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.logger = logger
	s.baseContext = custody.WithLogger(s.baseContext, logger)
	if s.blockContext != nil {
		s.blockContext = custody.WithLogger(s.blockContext, logger)
	}
	return s
}

// BlockContext is the context of the block being processed.
func (s *StoreApp) BlockContext() custody.Context {
	return s.blockContext
}

func (s *StoreApp) DeliverStore() custody.CacheableKVStore {
	return s.store.DeliverStore()
}

func (s *StoreApp) CheckStore() custody.CacheableKVStore {
	return s.store.CheckStore()
}

// loadGenesis stores the chain id and hands app_state to the initializer.
// It runs once, on the first InitChain.
func (s *StoreApp) loadGenesis(appState []byte, chainID string) error {
	if s.chainID != "" {
		return errors.Wrapf(errors.ErrState, "genesis already loaded for chain %s", s.chainID)
	}
	if len(appState) == 0 {
		return errors.Wrap(errors.ErrEmpty, "app_state not set in genesis.json, run init before starting the node")
	}
	var opts custody.Options
	if err := json.Unmarshal(appState, &opts); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	if err := saveChainID(s.DeliverStore(), chainID); err != nil {
		return err
	}
	s.chainID = chainID
	s.baseContext = custody.WithChainID(s.baseContext, chainID)
	s.blockContext = custody.WithChainID(s.blockContext, chainID)

	if s.initializer == nil {
		return nil
	}
	return s.initializer.FromGenesis(opts, s.DeliverStore())
}

// Info reports the last committed height and app hash.
func (s *StoreApp) Info(req abci.RequestInfo) abci.ResponseInfo {
	info, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	s.logger.Info("Info synced", "height", info.Version, "hash", fmt.Sprintf("%X", info.Hash))
	return abci.ResponseInfo{
		Data:             s.name,
		LastBlockHeight:  info.Version,
		LastBlockAppHash: info.Hash,
	}
}

// SetOption is not supported.
func (s *StoreApp) SetOption(res abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "Not Implemented"}
}

/*
Query reads the latest committed state.

The path selects the handler: "/" for raw keys, "/<bucket>" for a bucket
such as "/vaults", or "/<bucket>/<index>" for one of its indexes. A
"?prefix" suffix turns the lookup of Data into a prefix scan.

Key and Value of the response are ResultSets of equal length, holding zero
or more matches.
*/
func (s *StoreApp) Query(req abci.RequestQuery) abci.ResponseQuery {
	path, mod := splitPath(req.Path)
	qh := s.queryRouter.Handler(path)
	if qh == nil {
		return queryError(errors.Wrapf(errors.ErrNotFound, "unexpected query path: %v", req.Path), s.debug)
	}
	info, err := s.store.CommitInfo()
	if err != nil {
		return queryError(err, s.debug)
	}

	db := s.store.committed.CacheWrap()
	defer db.Discard()
	models, err := qh.Query(db, mod, req.Data)
	if err != nil {
		return queryError(err, s.debug)
	}

	keys, values := SplitResults(models)
	res := abci.ResponseQuery{Height: info.Version}
	if res.Key, err = keys.Marshal(); err != nil {
		return queryError(err, s.debug)
	}
	if res.Value, err = values.Marshal(); err != nil {
		return queryError(err, s.debug)
	}
	return res
}

// splitPath separates the query modifier following "?".
func splitPath(path string) (string, string) {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i], path[i+1:]
	}
	return path, ""
}

// Commit persists the state delivered in this block.
func (s *StoreApp) Commit() abci.ResponseCommit {
	id, err := s.store.Commit()
	if err != nil {
		panic(err)
	}
	s.logger.Debug("Commit synced", "height", id.Version, "hash", fmt.Sprintf("%X", id.Hash))
	return abci.ResponseCommit{Data: id.Hash}
}

// InitChain loads the genesis app_state.
func (s *StoreApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	if err := s.loadGenesis(req.AppStateBytes, req.ChainId); err != nil {
		panic(err)
	}
	return abci.ResponseInitChain{}
}

// BeginBlock starts a new block context at the given height.
func (s *StoreApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	s.blockContext = custody.WithHeight(s.baseContext, req.Header.Height)
	return abci.ResponseBeginBlock{}
}

// EndBlock implements ABCI. Validator set changes are not supported.
func (s *StoreApp) EndBlock(_ abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}
