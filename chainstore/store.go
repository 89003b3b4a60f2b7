// Package chainstore implements the persistent, hash-linked block
// store: blocks keyed by hash, with the reserved key "l" holding the
// current tip, backed by a single go.etcd.io/bbolt database.
package chainstore

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sync"
	"time"

	"go.etcd.io/bbolt"
	"go.uber.org/zap"

	"ledgerforge/blockchain"
)

const blocksBucket = "blocks"

// tipKey is the reserved key holding the current tip's hash.
var tipKey = []byte("l")

// ChainStore is a persistent, append-only block store with a cached
// tip hash. It is cheap to Clone: clones share the same underlying
// *bbolt.DB handle and tip mutex, so all observe a consistent tip.
type ChainStore struct {
	db  *bbolt.DB
	log *zap.Logger

	mu  *sync.RWMutex
	tip *string
}

// Open loads the chain store at dbPath, failing with ErrNotInitialised
// if no tip has ever been recorded.
func Open(dbPath string, log *zap.Logger) (*ChainStore, error) {
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open chain store: %w", err)
	}

	var tip string
	err = db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(blocksBucket))
		if b == nil {
			return ErrNotInitialised
		}
		v := b.Get(tipKey)
		if v == nil {
			return ErrNotInitialised
		}
		tip = string(v)
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &ChainStore{
		db:  db,
		log: log,
		mu:  &sync.RWMutex{},
		tip: &tip,
	}, nil
}

// Create initialises a brand-new chain store at dbPath with a mined
// genesis block paying its coinbase to address, failing with
// ErrAlreadyExists if a tip is already recorded.
func Create(dbPath string, log *zap.Logger, address string, genesisMemo string, difficulty uint32) (*ChainStore, error) {
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open chain store: %w", err)
	}

	coinbase, err := blockchain.NewCoinbaseTransaction(address, genesisMemo)
	if err != nil {
		db.Close()
		return nil, err
	}

	genesis, err := blockchain.NewBlock(log, []blockchain.Transaction{*coinbase}, "", 0, difficulty)
	if err != nil {
		db.Close()
		return nil, err
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(blocksBucket))
		if err != nil {
			return err
		}
		if b.Get(tipKey) != nil {
			return ErrAlreadyExists
		}

		encoded, err := encodeBlock(genesis)
		if err != nil {
			return err
		}
		if err := b.Put([]byte(genesis.Hash), encoded); err != nil {
			return err
		}
		return b.Put(tipKey, []byte(genesis.Hash))
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	tip := genesis.Hash
	return &ChainStore{
		db:  db,
		log: log,
		mu:  &sync.RWMutex{},
		tip: &tip,
	}, nil
}

// Clone returns a new handle sharing this store's underlying database
// and tip, safe to hand to a different goroutine.
func (cs *ChainStore) Clone() *ChainStore {
	return &ChainStore{db: cs.db, log: cs.log, mu: cs.mu, tip: cs.tip}
}

// Close releases the underlying database handle.
func (cs *ChainStore) Close() error {
	return cs.db.Close()
}

// Tip returns the current tip hash.
func (cs *ChainStore) Tip() string {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return *cs.tip
}

// GetBlock fetches the block stored under hash.
func (cs *ChainStore) GetBlock(hash string) (*blockchain.Block, error) {
	var block *blockchain.Block
	err := cs.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(blocksBucket))
		v := b.Get([]byte(hash))
		if v == nil {
			return ErrNotFound
		}
		decoded, err := decodeBlock(v)
		if err != nil {
			return err
		}
		block = decoded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return block, nil
}

// AddBlock mines a block at the current tip's height+1 containing
// txs and appends it. The block insert and tip update are committed
// as a single bbolt transaction, so a crash mid-append can never
// leave a dangling block or a stale tip.
func (cs *ChainStore) AddBlock(txs []blockchain.Transaction, difficulty uint32) (*blockchain.Block, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	tipHash := *cs.tip
	tipBlock, err := cs.GetBlock(tipHash)
	if err != nil {
		return nil, fmt.Errorf("load tip block: %w", err)
	}

	newBlock, err := blockchain.NewBlock(cs.log, txs, tipHash, tipBlock.Height+1, difficulty)
	if err != nil {
		return nil, err
	}

	err = cs.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(blocksBucket))
		encoded, err := encodeBlock(newBlock)
		if err != nil {
			return err
		}
		if err := b.Put([]byte(newBlock.Hash), encoded); err != nil {
			return err
		}
		return b.Put(tipKey, []byte(newBlock.Hash))
	})
	if err != nil {
		return nil, fmt.Errorf("commit block: %w", err)
	}

	*cs.tip = newBlock.Hash
	return newBlock, nil
}

// BestHeight returns the tip block's height.
func (cs *ChainStore) BestHeight() (uint32, error) {
	tip, err := cs.GetBlock(cs.Tip())
	if err != nil {
		return 0, err
	}
	return tip.Height, nil
}

// BlockCount returns the number of blocks in the store, derived from
// total key count minus one (for the reserved tip key).
func (cs *ChainStore) BlockCount() (int, error) {
	count := 0
	err := cs.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(blocksBucket))
		return b.ForEach(func(k, v []byte) error {
			if !bytes.Equal(k, tipKey) {
				count++
			}
			return nil
		})
	})
	return count, err
}

func encodeBlock(b *blockchain.Block) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(b); err != nil {
		return nil, fmt.Errorf("encode block: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeBlock(data []byte) (*blockchain.Block, error) {
	var b blockchain.Block
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&b); err != nil {
		return nil, fmt.Errorf("decode block: %w", err)
	}
	return &b, nil
}
