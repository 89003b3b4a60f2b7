package blockchain

import (
	"bytes"

	"github.com/btcsuite/btcutil/base58"
)

// AddressVersion is the single supported address version byte.
const AddressVersion = byte(0x00)

// ChecksumLength is the width, in bytes, of an address checksum.
const ChecksumLength = 4

// EncodeAddress builds a Base58Check address from a 20-byte
// pub-key-hash: base58(version || pubKeyHash || checksum).
func EncodeAddress(pubKeyHash []byte) string {
	versioned := append([]byte{AddressVersion}, pubKeyHash...)
	checksum := checksum(versioned)
	full := append(versioned, checksum...)
	return base58.Encode(full)
}

// DecodeAddress validates address's checksum and returns its 20-byte
// pub-key-hash payload.
func DecodeAddress(address string) ([]byte, error) {
	full := base58.Decode(address)
	if len(full) <= ChecksumLength+1 {
		return nil, ErrInvalidAddressLength{Got: len(full)}
	}

	versioned := full[:len(full)-ChecksumLength]
	gotChecksum := full[len(full)-ChecksumLength:]

	wantChecksum := checksum(versioned)
	if !bytes.Equal(gotChecksum, wantChecksum) {
		return nil, ErrInvalidAddressChecksum{}
	}

	pubKeyHash := versioned[1:]
	if len(pubKeyHash) != ripemd160Length {
		return nil, ErrInvalidAddressLength{Got: len(pubKeyHash)}
	}
	return pubKeyHash, nil
}

const ripemd160Length = 20

func checksum(versionedPayload []byte) []byte {
	digest := DoubleSHA256(versionedPayload)
	return digest[:ChecksumLength]
}
