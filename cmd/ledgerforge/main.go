package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ledgerforge/internal/app"
	"ledgerforge/internal/applog"
	"ledgerforge/internal/config"
)

func main() {
	log := applog.New()
	defer log.Sync()

	cfg := config.Load()

	root := &cobra.Command{
		Use:           "ledgerforge",
		Short:         "A minimal UTXO blockchain",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "data directory")

	root.AddCommand(
		createWalletCmd(&cfg, log),
		getBalanceCmd(&cfg, log),
		createBlockchainCmd(&cfg, log),
		infoCmd(&cfg, log),
		startNodeCmd(log),
		sendCmd(&cfg, log),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func createWalletCmd(cfg *config.Config, log *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "create-wallet",
		Short: "Generate a new wallet and print its address",
		RunE: func(cmd *cobra.Command, args []string) error {
			address, err := app.CreateWallet(*cfg)
			if err != nil {
				return err
			}
			fmt.Println(address)
			return nil
		},
	}
}

func getBalanceCmd(cfg *config.Config, log *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "get-balance <address>",
		Short: "Print an address's spendable balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			balance, err := app.GetBalance(*cfg, log, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Balance of %s: %d\n", args[0], balance)
			return nil
		},
	}
}

func createBlockchainCmd(cfg *config.Config, log *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "create-blockchain <address>",
		Short: "Mine the genesis block, paying its subsidy to address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.CreateBlockchain(*cfg, log, args[0])
		},
	}
}

func infoCmd(cfg *config.Config, log *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print a summary of the chain",
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := app.Info(*cfg, log)
			if err != nil {
				return err
			}
			fmt.Printf("height: %d\nblocks: %d\ntip: %s\n", info.Height, info.BlockCount, info.TipHash)
			return nil
		},
	}
}

func startNodeCmd(log *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "start-node <port> [miner-address]",
		Short: "Start the TCP listener stub",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			minerAddress := ""
			if len(args) == 2 {
				minerAddress = args[1]
			}
			return app.StartNode(log, args[0], minerAddress)
		},
	}
}

func sendCmd(cfg *config.Config, log *zap.Logger) *cobra.Command {
	var from, to string
	var amount int64
	var mine bool

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send amount from one address to another",
		RunE: func(cmd *cobra.Command, args []string) error {
			tx, err := app.Send(*cfg, log, app.SendParams{From: from, To: to, Amount: amount, Mine: mine})
			if err != nil {
				return err
			}
			fmt.Printf("transaction %s sent (mined=%v)\n", tx.ID, mine)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "sender address")
	cmd.Flags().StringVar(&to, "to", "", "recipient address")
	cmd.Flags().Int64Var(&amount, "amount", 0, "amount to send")
	cmd.Flags().BoolVar(&mine, "mine", false, "mine a block immediately")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")
	return cmd
}
