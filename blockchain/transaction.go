package blockchain

import (
	"crypto/rand"
)

// coinbaseRandomBytes is appended to a coinbase's memo so that two
// coinbases with identical memos never collide on id.
const coinbaseRandomBytes = 32

// SpendableSource abstracts the UTXO index lookups NewUTXOTransaction
// needs, decoupling the transaction model from the index's storage
// backend.
type SpendableSource interface {
	FindSpendableOutputs(pubKeyHash []byte, amount int64) (int64, map[string][]int32, error)
}

// NewCoinbaseTransaction builds the sole minting transaction of a
// block: one input with an empty source id and vout -1 whose PubKey
// carries memo plus randomness (so identical memos still yield
// distinct ids), and one output of Subsidy locked to toAddress.
func NewCoinbaseTransaction(toAddress string, memo string) (*Transaction, error) {
	randBytes := make([]byte, coinbaseRandomBytes)
	if _, err := rand.Read(randBytes); err != nil {
		return nil, err
	}

	pubKey := append([]byte(memo), randBytes...)

	in := TXInput{
		Txid:      "",
		Vout:      -1,
		Signature: nil,
		PubKey:    pubKey,
	}

	out, err := NewTXOutput(Subsidy, toAddress)
	if err != nil {
		return nil, err
	}

	tx := &Transaction{Vin: []TXInput{in}, Vout: []TXOutput{out}}
	tx.setHash()
	return tx, nil
}

// PublicKeyProvider is the minimal wallet surface NewUTXOTransaction
// needs: the raw public key bytes to derive the sender's pub-key-hash
// and lock the change output.
type PublicKeyProvider interface {
	PublicKey() []byte
}

// NewUTXOTransaction spends wallet's unspent outputs to send amount
// to toAddress, returning a change output back to the sender when the
// accumulated inputs exceed amount. Signature fields are left empty
// and no caller in this module signs the transaction afterwards;
// block admission here does not verify signatures at all.
func NewUTXOTransaction(wallet PublicKeyProvider, toAddress string, amount int64, index SpendableSource) (*Transaction, error) {
	pubKeyHash := HashPubKey(wallet.PublicKey())

	accumulated, validOutputs, err := index.FindSpendableOutputs(pubKeyHash, amount)
	if err != nil {
		return nil, err
	}
	if accumulated < amount {
		return nil, ErrInsufficientFunds{Have: accumulated, Need: amount}
	}

	var inputs []TXInput
	for txid, outIdxs := range validOutputs {
		for _, outIdx := range outIdxs {
			inputs = append(inputs, TXInput{
				Txid:      txid,
				Vout:      outIdx,
				Signature: nil,
				PubKey:    wallet.PublicKey(),
			})
		}
	}

	var outputs []TXOutput
	recipientOut, err := NewTXOutput(int32(amount), toAddress)
	if err != nil {
		return nil, err
	}
	outputs = append(outputs, recipientOut)

	if accumulated > amount {
		senderAddress := EncodeAddress(pubKeyHash)
		changeOut, err := NewTXOutput(int32(accumulated-amount), senderAddress)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, changeOut)
	}

	tx := &Transaction{Vin: inputs, Vout: outputs}
	tx.setHash()
	return tx, nil
}

// setHash computes and stores tx's content-addressed id.
func (tx *Transaction) setHash() {
	hash := HashTransaction(tx)
	tx.ID = hexEncode(hash[:])
}

// Hash recomputes tx's id without mutating tx.
func (tx *Transaction) Hash() string {
	clone := *tx
	clone.ID = ""
	hash := HashTransaction(&clone)
	return hexEncode(hash[:])
}
