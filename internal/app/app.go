// Package app wires the core blockchain/chainstore/utxoindex/wallet
// packages into the operations the CLI exposes, keeping cmd/ thin and
// pushing orchestration into a package the command tree merely calls
// into.
package app

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"ledgerforge/blockchain"
	"ledgerforge/chainstore"
	"ledgerforge/internal/config"
	"ledgerforge/p2p"
	"ledgerforge/utxoindex"
	"ledgerforge/wallet"
)

// CreateWallet generates a new wallet, persists it, and returns its
// address.
func CreateWallet(cfg config.Config) (string, error) {
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}

	ws, err := wallet.LoadWallets(cfg.WalletsPath())
	if err != nil {
		return "", err
	}

	address, err := ws.CreateWallet()
	if err != nil {
		return "", err
	}

	if err := ws.Save(); err != nil {
		return "", err
	}
	return address, nil
}

// CreateBlockchain mines the genesis block paying its subsidy to
// address and builds the initial UTXO index.
func CreateBlockchain(cfg config.Config, log *zap.Logger, address string) error {
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	if _, err := blockchain.DecodeAddress(address); err != nil {
		return err
	}

	cs, err := chainstore.Create(cfg.BlocksPath(), log, address, cfg.GenesisMemo, cfg.Difficulty)
	if err != nil {
		return err
	}
	defer cs.Close()

	idx, err := utxoindex.Open(cfg.UTXOPath())
	if err != nil {
		return err
	}
	defer idx.Close()

	_, err = idx.Reindex(cs)
	return err
}

// GetBalance reindexes from the chain store and returns address's
// total spendable balance. It fails with the chain store's Open error
// (chainstore.ErrNotInitialised when no chain has been created).
func GetBalance(cfg config.Config, log *zap.Logger, address string) (int64, error) {
	if _, err := blockchain.DecodeAddress(address); err != nil {
		return 0, err
	}

	cs, err := chainstore.Open(cfg.BlocksPath(), log)
	if err != nil {
		return 0, err
	}
	defer cs.Close()

	idx, err := utxoindex.Open(cfg.UTXOPath())
	if err != nil {
		return 0, err
	}
	defer idx.Close()

	if _, err := idx.Reindex(cs); err != nil {
		return 0, err
	}

	return idx.GetBalance(address)
}

// ChainInfo summarises the chain store for the "info" command.
type ChainInfo struct {
	Height     uint32
	BlockCount int
	TipHash    string
}

// Info returns a summary of the current chain.
func Info(cfg config.Config, log *zap.Logger) (ChainInfo, error) {
	cs, err := chainstore.Open(cfg.BlocksPath(), log)
	if err != nil {
		return ChainInfo{}, err
	}
	defer cs.Close()

	height, err := cs.BestHeight()
	if err != nil {
		return ChainInfo{}, err
	}
	count, err := cs.BlockCount()
	if err != nil {
		return ChainInfo{}, err
	}

	return ChainInfo{Height: height, BlockCount: count, TipHash: cs.Tip()}, nil
}

// SendParams configures a Send call.
type SendParams struct {
	From   string
	To     string
	Amount int64
	Mine   bool
}

// Send builds a transaction moving Amount from From to To. When Mine
// is set, it also mines a block containing that transaction (plus a
// coinbase paying the subsidy back to From, who acts as its own
// miner in this single-node design) and reindexes the UTXO set
// afterward. Without Mine, the transaction is returned unmined: there
// is no mempool here to hand it off to.
func Send(cfg config.Config, log *zap.Logger, params SendParams) (*blockchain.Transaction, error) {
	ws, err := wallet.LoadWallets(cfg.WalletsPath())
	if err != nil {
		return nil, err
	}
	from, err := ws.Get(params.From)
	if err != nil {
		return nil, err
	}
	if _, err := blockchain.DecodeAddress(params.To); err != nil {
		return nil, err
	}

	idx, err := utxoindex.Open(cfg.UTXOPath())
	if err != nil {
		return nil, err
	}
	defer idx.Close()

	cs, err := chainstore.Open(cfg.BlocksPath(), log)
	if err != nil {
		return nil, err
	}
	defer cs.Close()

	if _, err := idx.Reindex(cs); err != nil {
		return nil, err
	}

	tx, err := blockchain.NewUTXOTransaction(from, params.To, params.Amount, idx)
	if err != nil {
		return nil, err
	}

	if !params.Mine {
		return tx, nil
	}

	coinbase, err := blockchain.NewCoinbaseTransaction(params.From, "send --mine reward")
	if err != nil {
		return nil, err
	}

	if _, err := cs.AddBlock([]blockchain.Transaction{*coinbase, *tx}, cfg.Difficulty); err != nil {
		return nil, err
	}

	if _, err := idx.Reindex(cs); err != nil {
		return nil, err
	}

	return tx, nil
}

// StartNode binds the TCP listener stub. It blocks until the listener
// fails. minerAddress is accepted for parity with a future mining
// loop but otherwise unused: there is no mempool yet to mine against.
func StartNode(log *zap.Logger, port string, minerAddress string) error {
	if minerAddress != "" {
		log.Info("start-node: miner address recorded, but mining without a mempool is out of scope", zap.String("miner", minerAddress))
	}
	server := p2p.NewServer(port, log)
	return server.Start()
}
