package blockchain

import "go.uber.org/zap"

// Validate checks block against its claimed predecessor: the header
// hash, its proof of work, and chain linkage (prev hash, height,
// timestamp ordering). It does not verify transaction signatures.
func (b *Block) Validate(log *zap.Logger, prev *Block) error {
	merkle := MerkleRoot(b.Transactions)
	header := serializeBlockHeader(b.PrevBlockHash, merkle, b.Timestamp, b.Difficulty, b.Nonce)
	recomputed := SHA256(header)

	stored, ok := hexDecode32(b.Hash)
	if !ok {
		if log != nil {
			log.Warn("block hash is not valid hex", zap.String("hash", b.Hash))
		}
		return ErrHashMismatch{Want: b.Hash, Got: hexEncode(recomputed[:])}
	}
	if stored != recomputed {
		return ErrHashMismatch{Want: b.Hash, Got: hexEncode(recomputed[:])}
	}

	if !meetsDifficulty(recomputed, b.Difficulty) {
		return ErrInvalidProofOfWork{Hash: b.Hash, Difficulty: b.Difficulty}
	}

	if prev == nil {
		// Genesis: no predecessor to compare against.
		return nil
	}

	if b.PrevBlockHash != prev.Hash {
		return ErrPrevHashMismatch{Want: prev.Hash, Got: b.PrevBlockHash}
	}
	if b.Height != prev.Height+1 {
		return ErrHeightMismatch{Want: prev.Height + 1, Got: b.Height}
	}
	if b.Timestamp <= prev.Timestamp {
		return ErrInvalidTimestamp{Prev: prev.Timestamp, Got: b.Timestamp}
	}

	return nil
}
