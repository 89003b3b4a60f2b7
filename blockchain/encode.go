package blockchain

import (
	"bytes"
	"encoding/binary"
)

// encoder implements the fixed-endian, length-prefixed binary layout
// that both transaction ids and block hashes are computed over. It is
// deliberately hand-rolled rather than built on a general-purpose
// serialization library: the byte layout itself is the hash-identity
// contract, and a third-party encoder's framing is free to change
// between versions in ways this format cannot permit.
type encoder struct {
	buf bytes.Buffer
}

func newEncoder() *encoder { return &encoder{} }

func (e *encoder) bytes() []byte { return e.buf.Bytes() }

func (e *encoder) writeUint64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	e.buf.Write(b[:])
}

func (e *encoder) writeUint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	e.buf.Write(b[:])
}

func (e *encoder) writeInt32(v int32) {
	e.writeUint32(uint32(v))
}

// writeBytes writes a length-prefixed byte sequence: an 8-byte
// little-endian length followed by the raw bytes.
func (e *encoder) writeBytes(b []byte) {
	e.writeUint64(uint64(len(b)))
	e.buf.Write(b)
}

func (e *encoder) writeString(s string) {
	e.writeBytes([]byte(s))
}

func (e *encoder) writeTXInput(in TXInput) {
	e.writeString(in.Txid)
	e.writeInt32(in.Vout)
	e.writeBytes(in.Signature)
	e.writeBytes(in.PubKey)
}

func (e *encoder) writeTXOutput(out TXOutput) {
	e.writeInt32(out.Value)
	e.writeBytes(out.PubKeyHash)
}

// serializeTransactionForHash encodes tx with its ID field cleared,
// the external contract the transaction hash is computed over.
func serializeTransactionForHash(tx *Transaction) []byte {
	e := newEncoder()
	e.writeString("") // ID field, cleared
	e.writeUint64(uint64(len(tx.Vin)))
	for _, in := range tx.Vin {
		e.writeTXInput(in)
	}
	e.writeUint64(uint64(len(tx.Vout)))
	for _, out := range tx.Vout {
		e.writeTXOutput(out)
	}
	return e.bytes()
}

// serializeBlockHeader encodes the 5-tuple
// (prev_block_hash, merkle_root, timestamp, difficulty, nonce), the
// exact input the block hash and proof-of-work search are computed
// over.
func serializeBlockHeader(prevBlockHash string, merkleRoot []byte, timestamp uint64, difficulty uint32, nonce uint64) []byte {
	e := newEncoder()
	e.writeString(prevBlockHash)
	e.writeBytes(merkleRoot)
	e.writeUint64(timestamp)
	e.writeUint32(difficulty)
	e.writeUint64(nonce)
	return e.bytes()
}
