package wallet

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
)

// ErrWalletNotFound is returned when an address has no matching
// entry in the wallet file.
var ErrWalletNotFound = errors.New("wallet not found")

// walletRecord is the on-disk, gob-encodable form of a Wallet: only
// the PKCS8 private key bytes are persisted. The public key and
// address are both re-derivable from it, so neither is stored.
type walletRecord struct {
	PKCS8 []byte
}

// Wallets is the single-writer collection persisted to one file.
type Wallets struct {
	path    string
	records map[string]walletRecord
}

// LoadWallets opens the wallet file at path, returning an empty
// collection if it does not yet exist.
func LoadWallets(path string) (*Wallets, error) {
	w := &Wallets{path: path, records: make(map[string]walletRecord)}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return w, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open wallet file: %w", err)
	}
	defer f.Close()

	if err := gob.NewDecoder(f).Decode(&w.records); err != nil {
		return nil, fmt.Errorf("decode wallet file: %w", err)
	}
	return w, nil
}

// CreateWallet generates a new wallet, stores it under its derived
// address, and returns that address. The caller must call Save to
// persist it.
func (ws *Wallets) CreateWallet() (string, error) {
	w, err := NewWallet()
	if err != nil {
		return "", err
	}

	pkcs8, err := w.marshalPKCS8()
	if err != nil {
		return "", fmt.Errorf("marshal wallet key: %w", err)
	}

	address := w.GetAddress()
	ws.records[address] = walletRecord{PKCS8: pkcs8}
	return address, nil
}

// Addresses returns every address currently stored.
func (ws *Wallets) Addresses() []string {
	addrs := make([]string, 0, len(ws.records))
	for a := range ws.records {
		addrs = append(addrs, a)
	}
	return addrs
}

// Get returns the wallet stored under address.
func (ws *Wallets) Get(address string) (*Wallet, error) {
	rec, ok := ws.records[address]
	if !ok {
		return nil, ErrWalletNotFound
	}
	return unmarshalPKCS8(rec.PKCS8)
}

// Save overwrites the wallet file with the current in-memory state.
// Single-writer: concurrent Save calls are not coordinated.
func (ws *Wallets) Save() error {
	f, err := os.Create(ws.path)
	if err != nil {
		return fmt.Errorf("create wallet file: %w", err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(ws.records); err != nil {
		return fmt.Errorf("encode wallet file: %w", err)
	}
	return nil
}
