package utxoindex

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"ledgerforge/blockchain"
	"ledgerforge/chainstore"
)

func newFixture(t *testing.T) (*chainstore.ChainStore, *Index, string) {
	t.Helper()
	address := blockchain.EncodeAddress(blockchain.HashPubKey([]byte("fixture-wallet")))

	csPath := filepath.Join(t.TempDir(), "blocks")
	cs, err := chainstore.Create(csPath, zap.NewNop(), address, "fixture genesis", 8)
	if err != nil {
		t.Fatalf("chainstore.Create failed: %v", err)
	}
	t.Cleanup(func() { cs.Close() })

	idxPath := filepath.Join(t.TempDir(), "utxoset")
	idx, err := Open(idxPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { idx.Close() })

	return cs, idx, address
}

func TestReindexCountsGenesisTransaction(t *testing.T) {
	cs, idx, _ := newFixture(t)

	count, err := idx.Reindex(cs)
	if err != nil {
		t.Fatalf("Reindex failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 distinct txid after indexing genesis, got %d", count)
	}

	txCount, err := idx.CountTransactions()
	if err != nil {
		t.Fatalf("CountTransactions failed: %v", err)
	}
	if txCount != 1 {
		t.Fatalf("expected CountTransactions == 1, got %d", txCount)
	}
}

func TestReindexIsDeterministic(t *testing.T) {
	cs, idx, _ := newFixture(t)

	if _, err := idx.Reindex(cs); err != nil {
		t.Fatalf("first reindex failed: %v", err)
	}
	firstBalance, err := idx.GetBalance(addressFromFixture(t, cs))
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}

	if _, err := idx.Reindex(cs); err != nil {
		t.Fatalf("second reindex failed: %v", err)
	}
	secondBalance, err := idx.GetBalance(addressFromFixture(t, cs))
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}

	if firstBalance != secondBalance {
		t.Fatalf("reindexing twice should produce identical balances, got %d and %d", firstBalance, secondBalance)
	}
}

// addressFromFixture re-derives the fixture's address from the
// genesis block's sole output, avoiding a second unused return value
// from newFixture in tests that don't need it directly.
func addressFromFixture(t *testing.T, cs *chainstore.ChainStore) string {
	t.Helper()
	block, err := cs.GetBlock(cs.Tip())
	if err != nil {
		t.Fatalf("GetBlock failed: %v", err)
	}
	return blockchain.EncodeAddress(block.Transactions[0].Vout[0].PubKeyHash)
}

func TestGetBalanceForUnfundedAddressIsZero(t *testing.T) {
	cs, idx, _ := newFixture(t)
	if _, err := idx.Reindex(cs); err != nil {
		t.Fatalf("Reindex failed: %v", err)
	}

	other := blockchain.EncodeAddress(blockchain.HashPubKey([]byte("nobody")))
	balance, err := idx.GetBalance(other)
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}
	if balance != 0 {
		t.Fatalf("an address that never received funds should have balance 0, got %d", balance)
	}
}

func TestFindSpendableOutputsStopsOnceAmountReached(t *testing.T) {
	cs, idx, address := newFixture(t)

	// A second coinbase to the same address gives two spendable
	// outputs, either of which alone covers the subsidy.
	coinbase, err := blockchain.NewCoinbaseTransaction(address, "second reward")
	if err != nil {
		t.Fatalf("NewCoinbaseTransaction failed: %v", err)
	}
	if _, err := cs.AddBlock([]blockchain.Transaction{*coinbase}, 8); err != nil {
		t.Fatalf("AddBlock failed: %v", err)
	}

	if _, err := idx.Reindex(cs); err != nil {
		t.Fatalf("Reindex failed: %v", err)
	}

	pubKeyHash, err := blockchain.DecodeAddress(address)
	if err != nil {
		t.Fatalf("DecodeAddress failed: %v", err)
	}

	accumulated, outputs, err := idx.FindSpendableOutputs(pubKeyHash, blockchain.Subsidy)
	if err != nil {
		t.Fatalf("FindSpendableOutputs failed: %v", err)
	}
	if accumulated != blockchain.Subsidy {
		t.Fatalf("expected to stop after one output, accumulating exactly the subsidy, got %d", accumulated)
	}
	if len(outputs) != 1 {
		t.Fatalf("expected exactly one spendable output recorded, got %d txids", len(outputs))
	}
}

func TestFindSpendableOutputsInsufficientForLargeAmount(t *testing.T) {
	cs, idx, address := newFixture(t)
	if _, err := idx.Reindex(cs); err != nil {
		t.Fatalf("Reindex failed: %v", err)
	}

	pubKeyHash, err := blockchain.DecodeAddress(address)
	if err != nil {
		t.Fatalf("DecodeAddress failed: %v", err)
	}

	accumulated, _, err := idx.FindSpendableOutputs(pubKeyHash, 1_000_000)
	if err != nil {
		t.Fatalf("FindSpendableOutputs failed: %v", err)
	}
	if accumulated >= 1_000_000 {
		t.Fatalf("should not have accumulated the full requested amount")
	}
}
