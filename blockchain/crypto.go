package blockchain

import (
	"crypto/sha256"

	"golang.org/x/crypto/ripemd160"
)

// SHA256 returns the single-pass SHA-256 digest of b.
func SHA256(b []byte) Hash32 {
	return sha256.Sum256(b)
}

// DoubleSHA256 returns SHA256(SHA256(b)), used for address checksums.
func DoubleSHA256(b []byte) Hash32 {
	first := sha256.Sum256(b)
	return sha256.Sum256(first[:])
}

// HashPubKey returns RIPEMD160(SHA256(pubKey)), the 20-byte hash an
// output locks to.
func HashPubKey(pubKey []byte) []byte {
	shaHash := sha256.Sum256(pubKey)
	hasher := ripemd160.New()
	// ripemd160.New never errors on Write.
	hasher.Write(shaHash[:])
	return hasher.Sum(nil)
}

// HashTransaction computes tx's content-addressed id: SHA-256 of the
// binary serialisation of tx with its ID field cleared.
func HashTransaction(tx *Transaction) Hash32 {
	return sha256.Sum256(serializeTransactionForHash(tx))
}

// MerkleRoot computes the complete-binary-Merkle-tree root over the
// hex ids of txs. Leaves are the UTF-8 bytes of each id (not the raw
// digest of the transaction) hashed once to form the tree's leaf
// layer; internal nodes are SHA256(left||right). On an odd count at
// any level the last node is duplicated before pairing. An empty
// transaction set roots to the empty byte sequence.
func MerkleRoot(txs []Transaction) []byte {
	if len(txs) == 0 {
		return []byte{}
	}

	level := make([][]byte, len(txs))
	for i, tx := range txs {
		h := sha256.Sum256([]byte(tx.ID))
		level[i] = h[:]
	}

	for len(level) > 1 {
		if len(level)%2 == 1 {
			level = append(level, level[len(level)-1])
		}
		next := make([][]byte, 0, len(level)/2)
		for i := 0; i < len(level); i += 2 {
			h := sha256.New()
			h.Write(level[i])
			h.Write(level[i+1])
			next = append(next, h.Sum(nil))
		}
		level = next
	}

	return level[0]
}
