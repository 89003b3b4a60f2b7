// Package utxoindex implements the persistent secondary index
// mapping transaction id to unspent outputs. It is eventually
// consistent with the chain store: callers that need fresh balances
// after ChainStore.AddBlock must call Reindex.
package utxoindex

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"ledgerforge/blockchain"
	"ledgerforge/chainstore"
)

const utxoBucket = "utxoset"

// ChainSource is the subset of *chainstore.ChainStore the index
// rebuilds itself from.
type ChainSource interface {
	FindUTXO() (map[string]blockchain.TXOutputs, error)
}

// Index is a persistent key-value map from transaction id to that
// transaction's currently-unspent outputs, backed by its own
// go.etcd.io/bbolt database distinct from the chain store.
type Index struct {
	db *bbolt.DB
}

// Open opens (creating if absent) the index database at dbPath.
func Open(dbPath string) (*Index, error) {
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open utxo index: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(utxoBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Index{db: db}, nil
}

// Close releases the underlying database handle.
func (idx *Index) Close() error {
	return idx.db.Close()
}

// Reindex clears the index and repopulates it from chain, returning
// the number of distinct transaction ids retained. Rebuilding from
// the same chain twice yields byte-equal entries by construction,
// since this simply overwrites the bucket with chain.FindUTXO's
// output.
func (idx *Index) Reindex(chain ChainSource) (int, error) {
	utxo, err := chain.FindUTXO()
	if err != nil {
		return 0, fmt.Errorf("scan chain for utxo: %w", err)
	}

	err = idx.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket([]byte(utxoBucket)); err != nil && err != bbolt.ErrBucketNotFound {
			return err
		}
		b, err := tx.CreateBucket([]byte(utxoBucket))
		if err != nil {
			return err
		}
		for txid, outs := range utxo {
			encoded, err := encodeOutputs(outs)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(txid), encoded); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("commit reindex: %w", err)
	}

	return len(utxo), nil
}

// FindSpendableOutputs greedily accumulates pubKeyHash's unspent
// outputs until the running total reaches amount. Iteration order is
// whatever bbolt yields; which outputs get selected is not specified
// beyond "enough to cover amount". Returned indices are original
// output positions, directly usable as a new TXInput.Vout.
func (idx *Index) FindSpendableOutputs(pubKeyHash []byte, amount int64) (int64, map[string][]int32, error) {
	var accumulated int64
	unspentOutputs := make(map[string][]int32)

	err := idx.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(utxoBucket))
		return b.ForEach(func(k, v []byte) error {
			if accumulated >= amount {
				return nil
			}
			outs, err := decodeOutputs(v)
			if err != nil {
				return err
			}
			txid := string(k)
			for _, entry := range outs.Outputs {
				if accumulated >= amount {
					break
				}
				if entry.Output.IsLockedWith(pubKeyHash) {
					accumulated += int64(entry.Output.Value)
					unspentOutputs[txid] = append(unspentOutputs[txid], entry.Index)
				}
			}
			return nil
		})
	})
	if err != nil {
		return 0, nil, fmt.Errorf("scan utxo index: %w", err)
	}

	return accumulated, unspentOutputs, nil
}

// GetBalance sums the value of every output locked to address's
// pub-key-hash. It does not touch the chain store.
func (idx *Index) GetBalance(address string) (int64, error) {
	pubKeyHash, err := blockchain.DecodeAddress(address)
	if err != nil {
		return 0, err
	}

	var balance int64
	err = idx.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(utxoBucket))
		return b.ForEach(func(k, v []byte) error {
			outs, err := decodeOutputs(v)
			if err != nil {
				return err
			}
			for _, entry := range outs.Outputs {
				if entry.Output.IsLockedWith(pubKeyHash) {
					balance += int64(entry.Output.Value)
				}
			}
			return nil
		})
	})
	if err != nil {
		return 0, fmt.Errorf("scan utxo index: %w", err)
	}
	return balance, nil
}

// CountTransactions returns the index's key count.
func (idx *Index) CountTransactions() (int, error) {
	count := 0
	err := idx.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(utxoBucket))
		return b.ForEach(func(k, v []byte) error {
			count++
			return nil
		})
	})
	return count, err
}

func encodeOutputs(outs blockchain.TXOutputs) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(outs); err != nil {
		return nil, fmt.Errorf("encode tx outputs: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeOutputs(data []byte) (blockchain.TXOutputs, error) {
	var outs blockchain.TXOutputs
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&outs); err != nil {
		return blockchain.TXOutputs{}, fmt.Errorf("decode tx outputs: %w", err)
	}
	return outs, nil
}

// ensure *chainstore.ChainStore satisfies ChainSource at compile time.
var _ ChainSource = (*chainstore.ChainStore)(nil)
