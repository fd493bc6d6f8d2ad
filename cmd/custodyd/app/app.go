/*
Package app links together all the extensions of the custody chain: the
transaction format, the handler stack, the query router and the genesis
initializers.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/tendermint/tendermint/libs/log"

	"github.com/easlabs/custody"
	"github.com/easlabs/custody/app"
	"github.com/easlabs/custody/errors"
	"github.com/easlabs/custody/orm"
	"github.com/easlabs/custody/store/iavl"
	"github.com/easlabs/custody/x"
	"github.com/easlabs/custody/x/avatar"
	"github.com/easlabs/custody/x/registry"
	"github.com/easlabs/custody/x/sigs"
	"github.com/easlabs/custody/x/token"
	"github.com/easlabs/custody/x/utils"
	"github.com/easlabs/custody/x/vault"
)

// Authenticator returns the authentication used by all handlers, which is
// just public key signatures.
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle logging, recovery,
// signatures and savepoints.
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, bad tx will increment the nonce even if the
		// message fails
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a router dispatching messages of all extensions.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()

	tokens := token.NewController()
	avatars := avatar.NewController()
	vaults := vault.NewController(tokens, avatars)
	reg := registry.NewRegistry(vaults)

	sigs.RegisterRoutes(r, authFn)
	token.RegisterRoutes(r, authFn, tokens)
	avatar.RegisterRoutes(r, authFn, avatars)
	registry.RegisterRoutes(r, authFn, reg)
	vault.RegisterRoutes(r, authFn, vaults, reg.SelfCustodyMovesAsset)
	return r
}

// QueryRouter returns a query router giving access to "/", "/auth",
// "/tokens", "/balances", "/allowances", "/collections", "/avatars",
// "/vaults" and "/registry".
func QueryRouter() custody.QueryRouter {
	r := custody.NewQueryRouter()
	r.RegisterAll(
		orm.RegisterQuery,
		sigs.RegisterQuery,
		token.RegisterQuery,
		avatar.RegisterQuery,
		vault.RegisterQuery,
		registry.RegisterQuery,
	)
	return r
}

// Initializers returns the genesis initializers of all extensions. Tokens
// are created first so that the registry configuration can reference a
// genesis ledger.
func Initializers() custody.Initializer {
	return app.ChainInitializers(
		token.Initializer{},
		avatar.Initializer{},
		registry.Initializer{},
	)
}

// Stack wires up the router with the decorator chain. This can be passed
// into BaseApp.
func Stack() custody.Handler {
	authFn := Authenticator()
	return Chain().WithHandler(Router(authFn))
}

// Application constructs the ABCI application storing its state under
// dbPath. An empty path keeps the state in memory.
func Application(name string, h custody.Handler, decoder custody.TxDecoder, dbPath string, logger log.Logger, debug bool) (app.BaseApp, error) {
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	ctx := custody.WithLogger(context.Background(), logger)
	store := app.NewStoreApp(name, kv, QueryRouter(), ctx).
		WithInit(Initializers()).
		WithLogger(logger).
		WithDebug(debug)
	return app.NewBaseApp(store, decoder, h), nil
}

// CommitKVStore returns an initialized KVStore that persists the data to
// the named path.
func CommitKVStore(dbPath string) (custody.CommitKVStore, error) {
	if dbPath == "" {
		return iavl.NewMemCommitStore(), nil
	}

	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database path %q: %s", dbPath, err)
	}
	// A ".db" suffix is added by the database itself.
	path = strings.TrimSuffix(path, filepath.Ext(path))

	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name), nil
}
