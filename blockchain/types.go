package blockchain

import "bytes"

// Subsidy is the fixed reward minted by a coinbase transaction.
const Subsidy = 10

// DefaultDifficulty is the number of leading zero bits a block hash
// must carry when no other difficulty has been configured. Kept low
// so mining on ordinary hardware finishes in a reasonable time.
const DefaultDifficulty = 16

// Hash32 is a 32-byte digest, used for block and transaction hashes.
type Hash32 [32]byte

// TXInput references a single output of a prior transaction.
type TXInput struct {
	// Txid is the hex id of the transaction holding the referenced
	// output. Empty for a coinbase input.
	Txid string

	// Vout is the 0-based index of the referenced output within Txid.
	// -1 together with an empty Txid marks a coinbase input.
	Vout int32

	Signature []byte
	PubKey    []byte
}

// IsCoinbaseInput reports whether in refers to no real output.
func (in *TXInput) IsCoinbaseInput() bool {
	return in.Txid == "" && in.Vout == -1
}

// UsesKey reports whether in's PubKey hashes to pubKeyHash. The
// input's Signature is not checked.
func (in *TXInput) UsesKey(pubKeyHash []byte) bool {
	lockingHash := HashPubKey(in.PubKey)
	return bytes.Equal(lockingHash, pubKeyHash)
}

// TXOutput is a value locked to the hash of a single recipient public
// key. It is spendable only by whoever can produce a pub key hashing
// to PubKeyHash.
type TXOutput struct {
	Value      int32
	PubKeyHash []byte
}

// Lock locks o to the pub-key-hash payload encoded in address.
func (o *TXOutput) Lock(address string) error {
	payload, err := DecodeAddress(address)
	if err != nil {
		return err
	}
	o.PubKeyHash = payload
	return nil
}

// IsLockedWith reports whether o can be spent by pubKeyHash.
func (o *TXOutput) IsLockedWith(pubKeyHash []byte) bool {
	return bytes.Equal(o.PubKeyHash, pubKeyHash)
}

// NewTXOutput builds an output of value locked to address.
func NewTXOutput(value int32, address string) (TXOutput, error) {
	out := TXOutput{Value: value}
	if err := out.Lock(address); err != nil {
		return TXOutput{}, err
	}
	return out, nil
}

// TXOutputs is an indexed collection of a transaction's outputs, used
// by the UTXO index. Unlike the source design this is never compacted
// to a bare slice: each entry keeps the position it held in the
// owning transaction's Vout list, so an index lookup can be fed back
// into a TXInput.Vout directly.
type TXOutputs struct {
	Outputs []IndexedOutput
}

// IndexedOutput pairs a TXOutput with its original position in the
// owning transaction.
type IndexedOutput struct {
	Index  int32
	Output TXOutput
}

// Transaction is a content-addressed bundle of inputs and outputs.
type Transaction struct {
	ID   string
	Vin  []TXInput
	Vout []TXOutput
}

// IsCoinbase reports whether tx mints a block subsidy rather than
// spending prior outputs.
func (tx *Transaction) IsCoinbase() bool {
	return len(tx.Vin) == 1 && tx.Vin[0].IsCoinbaseInput()
}

// Block is a timestamped, hash-linked container of transactions
// sealed by proof of work.
type Block struct {
	// Timestamp is a millisecond Unix timestamp.
	Timestamp uint64

	Transactions []Transaction

	// PrevBlockHash is empty only for the genesis block.
	PrevBlockHash string

	Hash string

	Nonce uint64

	Height uint32

	// Difficulty is the number of required leading zero bits.
	Difficulty uint32
}
