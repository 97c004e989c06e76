// Package encoding provides in-circuit serialization gadgets for the byte
// formats Blobstream commits to: protobuf varints, the canonical Tendermint
// validator record, and the 64-byte data root tuple consumed by the
// Blobstream contract.
//
// The protobuf encoding of a Tendermint validator is a deterministic function
// of the validator's public key (32 bytes) and voting power (int64):
//
//	10 34 10 32 <pubkey> 16 <varint>
//
// The varint uses protobuf's default integer encoding: 7-bit payloads,
// least-significant group first, with a continuation bit per byte. See
// https://protobuf.dev/programming-guides/encoding/#varints.
package encoding

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/math/uints"
)

const (
	// VarintMaxBytes is the fixed size of a marshalled uint64 varint buffer.
	// Bytes past the minimal encoding are zero.
	VarintMaxBytes = 9

	// PubkeyBytes is the size of an Ed25519 public key.
	PubkeyBytes = 32

	// ValidatorBytes is the maximum length of a protobuf-encoded Tendermint
	// validator: 4 prefix bytes, the public key, the voting-power tag byte,
	// and a full-width varint.
	ValidatorBytes = 4 + PubkeyBytes + 1 + VarintMaxBytes

	// HeightLeafBytes is the size of the padded header-height leaf: the
	// 0x00 leaf-domain prefix, the 0x08 field tag, and a full-width varint.
	HeightLeafBytes = 2 + VarintMaxBytes

	// TupleBytes is the size of a data root tuple, matching
	// abi.encodePacked(uint256(height), dataRoot) on the contract side.
	TupleBytes = 64
)

// MarshalVarint serializes value as a protobuf varint into a fixed 9-byte
// buffer and returns the buffer together with the minimal encoded length.
//
// The value is decomposed into nine 7-bit groups, least significant first;
// bit 63 of the input is decomposed but never read, so values at or above
// 2^63 are silently truncated. Callers pass non-negative voting powers and
// block heights, which fit in 63 bits.
func MarshalVarint(api frontend.API, value frontend.Variable) ([VarintMaxBytes]uints.U8, frontend.Variable) {
	bits := api.ToBinary(value, 64)

	var septets [VarintMaxBytes]frontend.Variable
	for i := 0; i < VarintMaxBytes; i++ {
		septets[i] = api.FromBinary(bits[7*i : 7*i+7]...)
	}

	// Index of the last non-zero septet, or 0 when the value is zero.
	lastNonZero := frontend.Variable(0)
	for i := 0; i < VarintMaxBytes; i++ {
		isNonZero := api.Sub(1, api.IsZero(septets[i]))
		lastNonZero = api.Select(isNonZero, i, lastNonZero)
	}

	var out [VarintMaxBytes]uints.U8
	for i := 0; i < VarintMaxBytes; i++ {
		// The continuation bit is set iff i < lastNonZero. Field elements
		// carry no native ordering, so test membership of lastNonZero-(i+1)
		// in [0, VarintMaxBytes) by enumerating every candidate.
		diff := api.Sub(lastNonZero, i+1)
		hasMore := frontend.Variable(0)
		for j := 0; j < VarintMaxBytes; j++ {
			hasMore = api.Or(hasMore, api.IsZero(api.Sub(diff, j)))
		}
		out[i] = uints.U8{Val: api.Add(septets[i], api.Mul(hasMore, 128))}
	}

	return out, api.Add(lastNonZero, 1)
}

// MarshalValidator serializes the validator public key and voting power into
// the canonical 46-byte record. Pure concatenation; when the varint is
// shorter than 9 bytes the suffix is zero padding and the true protobuf
// length must be tracked out of band.
func MarshalValidator(api frontend.API, pubkey [PubkeyBytes]uints.U8, votingPower frontend.Variable) [ValidatorBytes]uints.U8 {
	var out [ValidatorBytes]uints.U8
	ptr := 0

	for _, b := range []byte{10, 34, 10, 32} {
		out[ptr] = uints.NewU8(b)
		ptr++
	}

	for i := 0; i < PubkeyBytes; i++ {
		out[ptr] = pubkey[i]
		ptr++
	}

	out[ptr] = uints.NewU8(16)
	ptr++

	varint, _ := MarshalVarint(api, votingPower)
	for i := 0; i < VarintMaxBytes; i++ {
		out[ptr] = varint[i]
		ptr++
	}

	return out
}

// EncodeMarshalledVarint builds the padded header-height leaf from a
// marshalled varint: the 0x00 leaf-domain prefix followed by the 0x08 field
// tag and the varint bytes.
func EncodeMarshalledVarint(varint [VarintMaxBytes]uints.U8) [HeightLeafBytes]uints.U8 {
	var out [HeightLeafBytes]uints.U8
	out[0] = uints.NewU8(0)
	out[1] = uints.NewU8(8)
	for i := 0; i < VarintMaxBytes; i++ {
		out[2+i] = varint[i]
	}
	return out
}

// ExtractHashFromProtobuf copies the 32-byte hash embedded at start out of a
// fixed-layout protobuf buffer. No tag or wire-type validation is performed:
// the offset is a compile-time constant the caller guarantees against the
// message layout (2 for a BlockID's inner hash, past its tag/length prefix).
func ExtractHashFromProtobuf(buf []uints.U8, start int) [32]uints.U8 {
	var out [32]uints.U8
	copy(out[:], buf[start:start+32])
	return out
}

// EncodeDataRootTuple encodes (height, dataHash) as the 64-byte tuple the
// Blobstream contract hashes into its data commitment: 24 zero bytes, the
// height as an 8-byte big-endian integer, then the data hash. Byte order and
// padding width are a wire contract with abi.encodePacked.
func EncodeDataRootTuple(api frontend.API, dataHash [32]uints.U8, height frontend.Variable) [TupleBytes]uints.U8 {
	var out [TupleBytes]uints.U8

	for i := 0; i < 24; i++ {
		out[i] = uints.NewU8(0)
	}

	bits := api.ToBinary(height, 64)
	for byteIdx := 0; byteIdx < 8; byteIdx++ {
		out[31-byteIdx] = uints.U8{Val: api.FromBinary(bits[8*byteIdx : 8*byteIdx+8]...)}
	}

	for i := 0; i < 32; i++ {
		out[32+i] = dataHash[i]
	}

	return out
}
