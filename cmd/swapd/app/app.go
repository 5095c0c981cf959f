/*
Package app links together all the various components
to construct the swapd app.
*/
package app

import (
	"context"
	"path/filepath"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/app"
	"github.com/iov-one/tokenswap/commands/server"
	"github.com/iov-one/tokenswap/gconf"
	"github.com/iov-one/tokenswap/store/iavl"
	"github.com/iov-one/tokenswap/x/escrow"
	"github.com/iov-one/tokenswap/x/system"
	"github.com/iov-one/tokenswap/x/token"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// Name is the application name reported to tendermint.
const Name = "swapd"

// Router returns the router of all programs of the ledger: the system
// program, the token program and the escrow program.
func Router() *app.Router {
	r := app.NewRouter()
	system.RegisterPrograms(r)
	token.RegisterPrograms(r)
	escrow.RegisterPrograms(r)
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/accounts", "/tokens" and "/escrows"
func QueryRouter(accounts tokenswap.AccountStore) tokenswap.QueryRouter {
	r := tokenswap.NewQueryRouter()
	r.RegisterAll(
		app.RegisterQuery,
		func(qr tokenswap.QueryRouter) {
			token.RegisterQuery(qr, accounts)
			escrow.RegisterQuery(qr, accounts, escrow.ProgramID)
		},
	)
	return r
}

// Initializers returns the genesis initializers: the rent parameters and
// the funded accounts.
func Initializers(accounts tokenswap.AccountStore) tokenswap.Initializer {
	return tokenswap.MultiInitializer{
		gconf.NewInitializer(map[string]func() gconf.Configuration{
			app.RentConfigPackage: func() gconf.Configuration { return &tokenswap.Rent{} },
		}),
		system.NewInitializer(accounts),
	}
}

// Application constructs the ABCI application on top of given store.
func Application(name string, kv tokenswap.CommitKVStore, debug bool) app.BaseApp {
	accounts := app.NewAccounts()
	store := app.NewStoreApp(name, kv, QueryRouter(accounts), context.Background()).
		WithInit(Initializers(accounts))
	exec := app.NewExecutor(Router(), accounts)
	return app.NewBaseApp(store, app.DecodeTx, exec, debug)
}

// CommitKVStore opens the state database described by the configuration.
func CommitKVStore(home string, cfg server.Config) tokenswap.CommitKVStore {
	path := cfg.DBPath(home)
	if path == "" {
		return iavl.NewMemCommitStore()
	}
	return iavl.NewCommitStore(filepath.Clean(path), Name)
}

// GenerateApp is used to create the application for server/start.go command
func GenerateApp(home string, logger log.Logger, cfg server.Config) (abci.Application, error) {
	application := Application(Name, CommitKVStore(home, cfg), cfg.Debug)
	application.WithLogger(logger)
	return application, nil
}
