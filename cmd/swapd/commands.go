package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/app"
	swapd "github.com/iov-one/tokenswap/cmd/swapd/app"
	"github.com/iov-one/tokenswap/commands/server"
	"github.com/iov-one/tokenswap/crypto"
	"github.com/iov-one/tokenswap/x/escrow"
	"github.com/spf13/cobra"
)

const (
	flagHome  = "home"
	flagBind  = "bind"
	flagDebug = "debug"
)

// RootCmd returns the swapd command with all subcommands attached.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "swapd",
		Short:         "Token swap ledger node",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".swapd")
	root.PersistentFlags().String(flagHome, defaultHome, "directory to store files under")

	root.AddCommand(
		initCmd(),
		startCmd(),
		validateCmd(),
		versionCmd(),
		keysCmd(),
		authorityCmd(),
	)
	return root
}

func home(cmd *cobra.Command) string {
	h, err := cmd.Flags().GetString(flagHome)
	if err != nil {
		panic(err)
	}
	return h
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [address]",
		Short: "Write the node configuration and the genesis app_state",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := server.LoadConfig(home(cmd))
			if err != nil {
				return err
			}
			logger, err := server.NewLogger(cfg)
			if err != nil {
				return err
			}
			return server.InitCmd(swapd.GenInitOptions, logger.With("module", "swapd"), home(cmd), args)
		},
	}
}

func startCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the abci server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := server.LoadConfig(home(cmd))
			if err != nil {
				return err
			}
			if err := overrideConfig(cmd, &cfg); err != nil {
				return err
			}
			logger, err := server.NewLogger(cfg)
			if err != nil {
				return err
			}
			return server.StartCmd(swapd.GenerateApp, logger.With("module", "swapd"), home(cmd), cfg)
		},
	}
	cmd.Flags().String(flagBind, server.DefaultConfig().Bind, "address server listens on, overrides the configuration")
	cmd.Flags().Bool(flagDebug, false, "call stack returned on error, overrides the configuration")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [genesis...]",
		Short: "Check that genesis files can initialize the application",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{server.GenesisPath(home(cmd))}
			}
			if err := server.ValidateGenesis(swapd.Initializers(app.NewAccounts()), args); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "genesis is valid")
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the app version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), tokenswap.Version())
		},
	}
}

// overrideConfig applies the start flags that were set on the command line
// to the file configuration.
func overrideConfig(cmd *cobra.Command, cfg *server.Config) error {
	var err error
	if cmd.Flags().Changed(flagBind) {
		if cfg.Bind, err = cmd.Flags().GetString(flagBind); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed(flagDebug) {
		if cfg.Debug, err = cmd.Flags().GetBool(flagDebug); err != nil {
			return err
		}
	}
	return nil
}

func keysCmd() *cobra.Command {
	var (
		out   string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Generate an ed25519 key and print it with its address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, js, err := swapd.GenerateKey()
			if err != nil {
				return err
			}
			if out != "" {
				if err := crypto.SavePrivateKey(key, out, force); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), js)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "also write the hex encoded private key to this file")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing key file")
	return cmd
}

func authorityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "authority [program-id]",
		Short: "Print the escrow authority address and bump of a program",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			programID := escrow.ProgramID
			if len(args) == 1 {
				id, err := tokenswap.ParseAddress(args[0])
				if err != nil {
					return err
				}
				programID = id
			}
			pda, err := escrow.DeriveAuthority(programID)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(struct {
				Program tokenswap.Address `json:"program"`
				Address tokenswap.Address `json:"address"`
				Bump    uint8             `json:"bump"`
			}{programID, pda.Address, pda.Bump}, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}
