package server

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/iov-one/tokenswap/errors"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(home string, logger log.Logger, cfg Config) (abci.Application, error)

// StartCmd creates the application and serves it on the configured
// address until the process is interrupted.
func StartCmd(gen AppGenerator, logger log.Logger, home string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "config")
	}

	app, err := gen(home, logger, cfg)
	if err != nil {
		return err
	}

	logger.Info("Starting ABCI app", "bind", cfg.Bind)
	svr, err := server.NewServer(cfg.Bind, "socket", app)
	if err != nil {
		return errors.Wrap(err, "create listener")
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrap(err, "start server")
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	logger.Info("Shutting down", "signal", <-sig)
	return svr.Stop()
}
