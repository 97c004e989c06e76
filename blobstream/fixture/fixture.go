// Package fixture generates deterministic, self-consistent proof inputs:
// a synthetic chain of Tendermint-shaped headers with real Merkle trees over
// the 14 header fields, linked through the last-block-id field. The inputs it
// produces satisfy every circuit constraint, which makes them usable both as
// test witnesses and as development data for the prover service.
package fixture

import (
	"encoding/binary"
	"fmt"

	"github.com/cometbft/cometbft/crypto/merkle"
	"github.com/cometbft/cometbft/crypto/tmhash"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"

	"github.com/succinctlabs/blobstream-gnark/blobstream"
	"github.com/succinctlabs/blobstream-gnark/blobstream/encoding"
	"github.com/succinctlabs/blobstream-gnark/blobstream/tmmerkle"
)

// nbHeaderFields is the number of field leaves in a Tendermint block header.
const nbHeaderFields = 14

// Header is one synthetic header: its height, the Merkle root over its field
// leaves, and the per-field inclusion proofs.
type Header struct {
	Height   uint64
	Hash     common.Hash
	DataHash common.Hash

	leaves [][]byte
	proofs []*merkle.Proof
}

// NewHeader builds a header at the given height whose last-block-id field
// commits to prevHeader and whose data-hash field commits to dataHash. All
// other fields carry deterministic filler derived from the height.
func NewHeader(height uint64, prevHeader, dataHash common.Hash) Header {
	leaves := make([][]byte, nbHeaderFields)
	for i := range leaves {
		leaves[i] = hashLeaf(filler(height, fmt.Sprintf("field/%d", i)))
	}
	leaves[tmmerkle.HeightFieldIndex] = heightLeaf(height)
	leaves[tmmerkle.LastBlockIDFieldIndex] = blockIDLeaf(prevHeader, filler(height, "parts"))
	leaves[tmmerkle.DataHashFieldIndex] = hashLeaf(dataHash)

	root, proofs := merkle.ProofsFromByteSlices(leaves)
	return Header{
		Height:   height,
		Hash:     common.BytesToHash(root),
		DataHash: dataHash,
		leaves:   leaves,
		proofs:   proofs,
	}
}

// FieldProof returns the inclusion proof of the field leaf at index under the
// header hash.
func (h Header) FieldProof(index int) blobstream.InclusionProofInput {
	return blobstream.InclusionProofInput{
		Leaf:  hexutil.Bytes(h.leaves[index]),
		Aunts: auntHashes(h.proofs[index]),
	}
}

// GenerateHeaderChain builds a deterministic chain of windowSize+1 headers
// starting at trustedHeight and assembles the complete proof input for the
// window it spans.
func GenerateHeaderChain(trustedHeight uint64, windowSize, nbLeaves int) (blobstream.ProofInput, error) {
	if windowSize <= 0 {
		return blobstream.ProofInput{}, errors.New("window size must be positive")
	}
	if nbLeaves < windowSize || nbLeaves&(nbLeaves-1) != 0 {
		return blobstream.ProofInput{}, errors.New("leaf capacity must be a power of two >= window size")
	}

	headers := make([]Header, windowSize+1)
	prevHash := filler(trustedHeight, "genesis")
	for i := range headers {
		height := trustedHeight + uint64(i)
		headers[i] = NewHeader(height, prevHash, filler(height, "data"))
		prevHash = headers[i].Hash
	}

	input := blobstream.ProofInput{
		WindowSize:       windowSize,
		NbLeaves:         nbLeaves,
		DataHashes:       make([]common.Hash, windowSize),
		BlockHeights:     make([]uint64, windowSize),
		CurrentHeader:    headerInput(headers[windowSize]),
		TrustedHeader:    headerInput(headers[0]),
		DataHashProofs:   make([]blobstream.InclusionProofInput, windowSize),
		PrevHeaderProofs: make([]blobstream.InclusionProofInput, windowSize),
	}
	for i := 0; i < windowSize; i++ {
		input.DataHashes[i] = headers[i].DataHash
		input.BlockHeights[i] = headers[i].Height

		// Walk step i checks the last-block-id of header windowSize-i and
		// through it the data hash of header windowSize-1-i.
		input.PrevHeaderProofs[i] = headers[windowSize-i].FieldProof(tmmerkle.LastBlockIDFieldIndex)
		input.DataHashProofs[i] = headers[windowSize-1-i].FieldProof(tmmerkle.DataHashFieldIndex)
	}
	input.DataCommitmentRoot = DataCommitmentRoot(trustedHeight, input.DataHashes)
	return input, nil
}

// GenerateDataCommitment returns deterministic data hashes for windowSize
// consecutive heights starting at startHeight, together with their
// commitment root.
func GenerateDataCommitment(startHeight uint64, windowSize int) ([]common.Hash, common.Hash) {
	hashes := make([]common.Hash, windowSize)
	for i := range hashes {
		hashes[i] = filler(startHeight+uint64(i), "data")
	}
	return hashes, DataCommitmentRoot(startHeight, hashes)
}

// EncodeDataRootTuple produces the 64-byte ABI encoding of (height, dataHash):
// the height as a left-padded big-endian word followed by the hash.
func EncodeDataRootTuple(height uint64, dataHash common.Hash) []byte {
	tuple := make([]byte, encoding.TupleBytes)
	binary.BigEndian.PutUint64(tuple[24:32], height)
	copy(tuple[32:], dataHash[:])
	return tuple
}

// DataCommitmentRoot computes the commitment natively: the Tendermint Merkle
// root over the data root tuples of consecutive heights starting at
// startHeight.
func DataCommitmentRoot(startHeight uint64, dataHashes []common.Hash) common.Hash {
	tuples := make([][]byte, len(dataHashes))
	for i, h := range dataHashes {
		tuples[i] = EncodeDataRootTuple(startHeight+uint64(i), h)
	}
	return common.BytesToHash(merkle.HashFromByteSlices(tuples))
}

// VarintLength returns the minimal protobuf varint length of v.
func VarintLength(v uint64) uint32 {
	n := uint32(1)
	for v >>= 7; v != 0; v >>= 7 {
		n++
	}
	return n
}

func headerInput(h Header) blobstream.HeaderInput {
	return blobstream.HeaderInput{
		HeaderHash:       h.Hash,
		Height:           h.Height,
		HeightProofAunts: auntHashes(h.proofs[tmmerkle.HeightFieldIndex]),
		HeightByteLength: VarintLength(h.Height),
	}
}

// heightLeaf is the protobuf encoding of the header height field: the tag
// byte 0x08 followed by the minimal varint.
func heightLeaf(height uint64) []byte {
	buf := make([]byte, 1+binary.MaxVarintLen64)
	buf[0] = 0x08
	n := binary.PutUvarint(buf[1:], height)
	return buf[:1+n]
}

// hashLeaf is the protobuf encoding of a 32-byte hash field: the tag byte
// 0x0a and the length 0x20 followed by the value.
func hashLeaf(h common.Hash) []byte {
	return append([]byte{0x0a, 0x20}, h[:]...)
}

// blockIDLeaf is the protobuf encoding of a BlockID with a single-part
// part-set header, which is exactly 72 bytes.
func blockIDLeaf(prevHeader, partsHash common.Hash) []byte {
	blockID := cmtproto.BlockID{
		Hash: prevHeader[:],
		PartSetHeader: cmtproto.PartSetHeader{
			Total: 1,
			Hash:  partsHash[:],
		},
	}
	leaf, err := blockID.Marshal()
	if err != nil {
		panic(err)
	}
	if len(leaf) != blobstream.ProtobufBlockIDBytes {
		panic(fmt.Sprintf("fixture: block id leaf is %d bytes", len(leaf)))
	}
	return leaf
}

func auntHashes(p *merkle.Proof) []common.Hash {
	out := make([]common.Hash, len(p.Aunts))
	for i, aunt := range p.Aunts {
		out[i] = common.BytesToHash(aunt)
	}
	return out
}

func filler(height uint64, label string) common.Hash {
	return common.BytesToHash(tmhash.Sum([]byte(fmt.Sprintf("%s/%d", label, height))))
}
