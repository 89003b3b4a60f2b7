package chainstore

import "ledgerforge/blockchain"

// spentOutput identifies one (txid, output index) pair consumed by a
// later input.
type spentOutput struct {
	txid string
	vout int32
}

// FindUTXO performs a full chain walk producing the authoritative
// unspent-output map:
//  1. every transaction's outputs are recorded against its txid, in
//     order, keeping each output's original position;
//  2. every non-coinbase input's referenced (txid, vout) is marked
//     spent;
//  3. spent entries are dropped rather than sentinel-marked, since
//     TXOutputs already tracks original indices — there is no
//     compaction step to lose positions over.
func (cs *ChainStore) FindUTXO() (map[string]blockchain.TXOutputs, error) {
	utxo := make(map[string]blockchain.TXOutputs)
	spent := make(map[spentOutput]bool)

	it := cs.Iter()
	for {
		block, ok := it.Next()
		if !ok {
			break
		}

		for _, tx := range block.Transactions {
			if !tx.IsCoinbase() {
				for _, in := range tx.Vin {
					spent[spentOutput{txid: in.Txid, vout: in.Vout}] = true
				}
			}
		}
	}

	it = cs.Iter()
	for {
		block, ok := it.Next()
		if !ok {
			break
		}

		for _, tx := range block.Transactions {
			entry := utxo[tx.ID]
			for idx, out := range tx.Vout {
				if spent[spentOutput{txid: tx.ID, vout: int32(idx)}] {
					continue
				}
				entry.Outputs = append(entry.Outputs, blockchain.IndexedOutput{
					Index:  int32(idx),
					Output: out,
				})
			}
			if len(entry.Outputs) > 0 {
				utxo[tx.ID] = entry
			}
		}
	}

	return utxo, nil
}
