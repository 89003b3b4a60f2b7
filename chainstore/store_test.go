package chainstore

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"ledgerforge/blockchain"
)

func testAddress(t *testing.T) string {
	t.Helper()
	return blockchain.EncodeAddress(blockchain.HashPubKey([]byte("test-miner")))
}

func newTestStore(t *testing.T) *ChainStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "blocks")
	cs, err := Create(dbPath, zap.NewNop(), testAddress(t), "test genesis", 8)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	t.Cleanup(func() { cs.Close() })
	return cs
}

func TestCreateThenCreateAgainFails(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "blocks")
	cs, err := Create(dbPath, zap.NewNop(), testAddress(t), "test genesis", 8)
	if err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	cs.Close()

	_, err = Create(dbPath, zap.NewNop(), testAddress(t), "test genesis", 8)
	if err != ErrAlreadyExists {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestOpenWithoutCreateFails(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "blocks")
	_, err := Open(dbPath, zap.NewNop())
	if err != ErrNotInitialised {
		t.Fatalf("expected ErrNotInitialised, got %v", err)
	}
}

func TestCreateThenOpenSeesSameTip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "blocks")
	cs, err := Create(dbPath, zap.NewNop(), testAddress(t), "test genesis", 8)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	tip := cs.Tip()
	cs.Close()

	reopened, err := Open(dbPath, zap.NewNop())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer reopened.Close()

	if reopened.Tip() != tip {
		t.Fatalf("reopened store should observe the same tip")
	}
}

func TestAddBlockAdvancesHeightAndTip(t *testing.T) {
	cs := newTestStore(t)

	genesisTip := cs.Tip()
	height, err := cs.BestHeight()
	if err != nil || height != 0 {
		t.Fatalf("expected genesis height 0, got %d (err=%v)", height, err)
	}

	coinbase, err := blockchain.NewCoinbaseTransaction(testAddress(t), "block 1 reward")
	if err != nil {
		t.Fatalf("NewCoinbaseTransaction failed: %v", err)
	}

	newBlock, err := cs.AddBlock([]blockchain.Transaction{*coinbase}, 8)
	if err != nil {
		t.Fatalf("AddBlock failed: %v", err)
	}

	if newBlock.Height != 1 {
		t.Fatalf("expected height 1, got %d", newBlock.Height)
	}
	if newBlock.PrevBlockHash != genesisTip {
		t.Fatalf("new block should chain off the prior tip")
	}
	if cs.Tip() != newBlock.Hash {
		t.Fatalf("store tip should advance to the new block's hash")
	}

	count, err := cs.BlockCount()
	if err != nil {
		t.Fatalf("BlockCount failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 blocks (genesis + 1), got %d", count)
	}
}

func TestIterWalksTipToGenesis(t *testing.T) {
	cs := newTestStore(t)

	coinbase, _ := blockchain.NewCoinbaseTransaction(testAddress(t), "block 1 reward")
	if _, err := cs.AddBlock([]blockchain.Transaction{*coinbase}, 8); err != nil {
		t.Fatalf("AddBlock failed: %v", err)
	}

	it := cs.Iter()
	var heights []uint32
	for {
		block, ok := it.Next()
		if !ok {
			break
		}
		heights = append(heights, block.Height)
	}

	if len(heights) != 2 || heights[0] != 1 || heights[1] != 0 {
		t.Fatalf("expected heights [1 0], got %v", heights)
	}
}

func TestFindUTXOIncludesGenesisOutputUntilSpent(t *testing.T) {
	cs := newTestStore(t)

	utxo, err := cs.FindUTXO()
	if err != nil {
		t.Fatalf("FindUTXO failed: %v", err)
	}

	if len(utxo) != 1 {
		t.Fatalf("expected exactly one txid with unspent outputs, got %d", len(utxo))
	}
	for _, outs := range utxo {
		if len(outs.Outputs) != 1 {
			t.Fatalf("expected exactly one unspent output, got %d", len(outs.Outputs))
		}
		if outs.Outputs[0].Index != 0 {
			t.Fatalf("expected original index 0, got %d", outs.Outputs[0].Index)
		}
	}

	genesis, err := cs.GetBlock(cs.Tip())
	if err != nil {
		t.Fatalf("GetBlock failed: %v", err)
	}
	genesisTxID := genesis.Transactions[0].ID

	coinbase, err := blockchain.NewCoinbaseTransaction(testAddress(t), "block 1 reward")
	if err != nil {
		t.Fatalf("NewCoinbaseTransaction failed: %v", err)
	}
	out, err := blockchain.NewTXOutput(blockchain.Subsidy, testAddress(t))
	if err != nil {
		t.Fatalf("NewTXOutput failed: %v", err)
	}
	spend := blockchain.Transaction{
		Vin:  []blockchain.TXInput{{Txid: genesisTxID, Vout: 0, PubKey: []byte("test-miner")}},
		Vout: []blockchain.TXOutput{out},
	}
	spend.ID = spend.Hash()
	if _, err := cs.AddBlock([]blockchain.Transaction{*coinbase, spend}, 8); err != nil {
		t.Fatalf("AddBlock failed: %v", err)
	}

	utxo, err = cs.FindUTXO()
	if err != nil {
		t.Fatalf("FindUTXO failed: %v", err)
	}
	if _, ok := utxo[genesisTxID]; ok {
		t.Fatalf("genesis output should no longer be unspent once spent")
	}
}
