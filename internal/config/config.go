// Package config centralises the on-disk layout into a configuration
// record constructed once and passed into every component that needs
// a path, instead of scattering hard-coded paths across the tree.
package config

import (
	"path/filepath"

	"github.com/spf13/viper"

	"ledgerforge/blockchain"
)

// Config holds every tunable path and parameter the core components
// need: where "data/blocks", "data/utxoset", and "data/wallets" live,
// and the mining difficulty and genesis memo to use.
type Config struct {
	DataDir     string
	Difficulty  uint32
	GenesisMemo string
}

// Default returns the configuration used when nothing overrides it: a
// "data" directory in the working directory and a difficulty of 16
// leading zero bits.
func Default() Config {
	return Config{
		DataDir:     "data",
		Difficulty:  blockchain.DefaultDifficulty,
		GenesisMemo: "The Times 03/Jan/2009 Chancellor on brink of second bailout for banks",
	}
}

// Load reads overrides from a "ledgerforge" config file (if present)
// and the LEDGERFORGE_* environment, falling back to Default.
func Load() Config {
	cfg := Default()

	v := viper.New()
	v.SetEnvPrefix("LEDGERFORGE")
	v.AutomaticEnv()
	v.SetConfigName("ledgerforge")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetDefault("data_dir", cfg.DataDir)
	v.SetDefault("difficulty", cfg.Difficulty)
	v.SetDefault("genesis_memo", cfg.GenesisMemo)

	// A missing config file is not an error; env/defaults still apply.
	_ = v.ReadInConfig()

	cfg.DataDir = v.GetString("data_dir")
	cfg.Difficulty = uint32(v.GetInt("difficulty"))
	cfg.GenesisMemo = v.GetString("genesis_memo")
	return cfg
}

// BlocksPath is the chain store's bbolt database path.
func (c Config) BlocksPath() string {
	return filepath.Join(c.DataDir, "blocks")
}

// UTXOPath is the UTXO index's bbolt database path.
func (c Config) UTXOPath() string {
	return filepath.Join(c.DataDir, "utxoset")
}

// WalletsPath is the single wallet file's path.
func (c Config) WalletsPath() string {
	return filepath.Join(c.DataDir, "wallets")
}
