package blockchain

import (
	"errors"
	"time"

	"go.uber.org/zap"
)

// ErrEmptyTransactionSet is returned when NewBlock is asked to mine a
// block with no transactions at all (a mined block must carry at
// least its coinbase).
var ErrEmptyTransactionSet = errors.New("block must contain at least a coinbase transaction")

// NewBlock assembles and mines a block at height, chained off
// prevBlockHash, containing txs (whose first entry must be the
// coinbase). The header hash is sealed once a nonce satisfying
// difficulty is found.
func NewBlock(log *zap.Logger, txs []Transaction, prevBlockHash string, height uint32, difficulty uint32) (*Block, error) {
	if len(txs) == 0 {
		return nil, ErrEmptyTransactionSet
	}

	merkle := MerkleRoot(txs)
	timestamp := uint64(time.Now().UnixMilli())

	nonce, hash, finalTimestamp := runProofOfWork(log, prevBlockHash, merkle, timestamp, difficulty)

	return &Block{
		Timestamp:     finalTimestamp,
		Transactions:  txs,
		PrevBlockHash: prevBlockHash,
		Hash:          hexEncode(hash[:]),
		Nonce:         nonce,
		Height:        height,
		Difficulty:    difficulty,
	}, nil
}
