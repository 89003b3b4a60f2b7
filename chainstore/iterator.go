package chainstore

import "ledgerforge/blockchain"

// Iterator is a short-lived, non-restartable cursor over the chain,
// walking from the tip backward to genesis. It borrows the store
// read-only and caches only the current hash — a non-owning handle,
// not a cyclic reference into the store.
type Iterator struct {
	store       *ChainStore
	currentHash string
	done        bool
}

// Iter returns an Iterator starting at the current tip.
func (cs *ChainStore) Iter() *Iterator {
	return &Iterator{store: cs, currentHash: cs.Tip()}
}

// Next returns the next block walking backward from the tip,
// terminating (ok == false) once genesis's empty PrevBlockHash is
// reached.
func (it *Iterator) Next() (block *blockchain.Block, ok bool) {
	if it.done {
		return nil, false
	}

	b, err := it.store.GetBlock(it.currentHash)
	if err != nil {
		it.done = true
		return nil, false
	}

	if b.PrevBlockHash == "" {
		it.done = true
	} else {
		it.currentHash = b.PrevBlockHash
	}

	return b, true
}
