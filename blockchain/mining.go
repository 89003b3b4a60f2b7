package blockchain

import (
	"time"

	"go.uber.org/zap"
)

// miningLogInterval is the minimum spacing between progress log lines
// emitted while searching for a valid nonce.
const miningLogInterval = 5 * time.Second

// runProofOfWork searches for a nonce such that
// SHA256(serializeBlockHeader(prevHash, merkleRoot, timestamp,
// difficulty, nonce)) satisfies meetsDifficulty. On the rare u64
// nonce wraparound it also reseeds the timestamp: re-hashing an
// unchanged header under a wrapped nonce can never produce a new
// candidate, so wrapping alone would spin forever. Returns the winning
// nonce, the raw 32-byte hash, and the timestamp that hash was
// computed over.
func runProofOfWork(log *zap.Logger, prevBlockHash string, merkleRoot []byte, timestamp uint64, difficulty uint32) (nonce uint64, hash Hash32, finalTimestamp uint64) {
	nonce = 0
	ts := timestamp
	lastLog := time.Now()

	for {
		header := serializeBlockHeader(prevBlockHash, merkleRoot, ts, difficulty, nonce)
		hash = SHA256(header)
		if meetsDifficulty(hash, difficulty) {
			return nonce, hash, ts
		}

		if nonce == ^uint64(0) {
			nonce = 0
			ts = uint64(time.Now().UnixMilli())
		} else {
			nonce++
		}

		if log != nil && time.Since(lastLog) >= miningLogInterval {
			log.Info("mining in progress", zap.Uint64("nonce", nonce), zap.Uint32("difficulty", difficulty))
			lastLog = time.Now()
		}
	}
}
