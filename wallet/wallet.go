// Package wallet implements the opaque Ed25519 signer and the
// address-encoding convention the core blockchain packages treat as
// an external collaborator. Wallet key material never leaves this
// package except as public key bytes and signatures.
package wallet

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"fmt"

	"ledgerforge/blockchain"
)

// Wallet is an opaque Ed25519 signer.
type Wallet struct {
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey
}

// NewWallet generates a fresh Ed25519 key pair.
func NewWallet() (*Wallet, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &Wallet{privateKey: priv, publicKey: pub}, nil
}

// PublicKey returns the wallet's raw Ed25519 public key bytes.
func (w *Wallet) PublicKey() []byte {
	return []byte(w.publicKey)
}

// Sign signs msg with the wallet's private key.
func (w *Wallet) Sign(msg []byte) []byte {
	return ed25519.Sign(w.privateKey, msg)
}

// GetAddress derives this wallet's Base58Check address from its
// public key.
func (w *Wallet) GetAddress() string {
	pubKeyHash := blockchain.HashPubKey(w.PublicKey())
	return blockchain.EncodeAddress(pubKeyHash)
}

// marshalPKCS8 encodes the wallet's private key as PKCS8, the on-disk
// representation Wallets persists.
func (w *Wallet) marshalPKCS8() ([]byte, error) {
	return x509.MarshalPKCS8PrivateKey(w.privateKey)
}

// unmarshalPKCS8 reconstructs a Wallet from a PKCS8-encoded Ed25519
// private key.
func unmarshalPKCS8(pkcs8 []byte) (*Wallet, error) {
	key, err := x509.ParsePKCS8PrivateKey(pkcs8)
	if err != nil {
		return nil, fmt.Errorf("parse wallet key: %w", err)
	}
	priv, ok := key.(ed25519.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("wallet key is not an Ed25519 private key")
	}
	pub, ok := priv.Public().(ed25519.PublicKey)
	if !ok {
		return nil, fmt.Errorf("could not derive public key from wallet key")
	}
	return &Wallet{privateKey: priv, publicKey: pub}, nil
}
