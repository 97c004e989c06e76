package blobstream

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/math/uints"
	"github.com/pkg/errors"

	"github.com/succinctlabs/blobstream-gnark/blobstream/encoding"
	"github.com/succinctlabs/blobstream-gnark/blobstream/tmmerkle"
)

const (
	// ProtobufBlockIDBytes is the fixed size of a protobuf-encoded BlockID:
	// the 34-byte hash field followed by the 38-byte part-set header.
	ProtobufBlockIDBytes = 72

	// ProtobufHashBytes is the fixed size of a protobuf-encoded hash field:
	// a 2-byte tag/length prefix and the 32-byte value.
	ProtobufHashBytes = 34

	// protobufHashStart is the offset of the inner hash within a BlockID or
	// data-hash buffer, past its tag/length prefix. A protobuf schema change
	// would invalidate this offset silently; it is a caller-guaranteed
	// constant.
	protobufHashStart = 2
)

// MerkleInclusionProof carries a leaf and its sibling path against a header
// root. The leaf position is implied by the call site, not carried in the
// proof.
type MerkleInclusionProof struct {
	Leaf  []uints.U8
	Aunts [tmmerkle.ProofDepth]tmmerkle.Hash
}

// HeaderVariable is an attested header: its hash, its height, and the
// inclusion proof of the height field under the hash.
type HeaderVariable struct {
	Header           tmmerkle.Hash
	HeightProofAunts [tmmerkle.ProofDepth]tmmerkle.Hash
	HeightByteLength frontend.Variable
	Height           frontend.Variable
}

// HeaderChainInput is the witness for one header-chain walk. Both proof
// slices are ordered from the current header back to the trusted header and
// their shared length is the window size.
type HeaderChainInput struct {
	CurrentHeader    HeaderVariable
	TrustedHeader    HeaderVariable
	DataHashProofs   []MerkleInclusionProof
	PrevHeaderProofs []MerkleInclusionProof
}

// DataCommitment computes the commitment root over the data hashes of the
// window starting at startBlock: leaf i is the data root tuple for height
// startBlock+i, the remaining capacity is filled with disabled zero tuples.
// nbLeaves is fixed when the circuit is built and must be a power of two no
// smaller than the window.
func DataCommitment(api frontend.API, dataHashes []tmmerkle.Hash, startBlock frontend.Variable, nbLeaves int) (tmmerkle.Hash, error) {
	if nbLeaves < len(dataHashes) {
		panic("blobstream: leaf capacity smaller than window")
	}

	leaves := make([][]uints.U8, nbLeaves)
	enabled := make([]frontend.Variable, nbLeaves)

	for i := range dataHashes {
		height := api.Add(startBlock, i)
		tuple := encoding.EncodeDataRootTuple(api, dataHashes[i], height)
		leaves[i] = tuple[:]
		enabled[i] = 1
	}

	zeroTuple := make([]uints.U8, encoding.TupleBytes)
	for i := range zeroTuple {
		zeroTuple[i] = uints.NewU8(0)
	}
	for i := len(dataHashes); i < nbLeaves; i++ {
		leaves[i] = zeroTuple
		enabled[i] = 0
	}

	return tmmerkle.RootFromLeaves(api, leaves, enabled)
}

// VerifyHeaderChain walks the window from the current header back to the
// trusted header, asserting hash linkage at every hop.
//
// Preconditions constrained before the walk: the height difference between
// current and trusted equals the window size exactly, and both headers'
// height proofs verify against their hashes. Each hop then recomputes the
// previous-block-id proof root against the running hash, extracts the
// previous header hash from that leaf, and recomputes the data-hash proof
// root against the extracted hash, authenticating that header's data hash in
// the same step. Any mismatch anywhere makes the witness unprovable; there
// is no partial success.
func VerifyHeaderChain(api frontend.API, input HeaderChainInput) error {
	windowSize := len(input.DataHashProofs)
	if len(input.PrevHeaderProofs) != windowSize {
		return errors.New("mismatched proof window sizes")
	}

	heightDiff := api.Sub(input.CurrentHeader.Height, input.TrustedHeader.Height)
	api.AssertIsEqual(heightDiff, windowSize)

	if err := tmmerkle.VerifyBlockHeight(
		api,
		input.CurrentHeader.Header,
		input.CurrentHeader.HeightProofAunts[:],
		input.CurrentHeader.Height,
		input.CurrentHeader.HeightByteLength,
	); err != nil {
		return errors.Wrap(err, "current header height")
	}
	if err := tmmerkle.VerifyBlockHeight(
		api,
		input.TrustedHeader.Header,
		input.TrustedHeader.HeightProofAunts[:],
		input.TrustedHeader.Height,
		input.TrustedHeader.HeightByteLength,
	); err != nil {
		return errors.Wrap(err, "trusted header height")
	}

	currHash := input.CurrentHeader.Header
	for i := 0; i < windowSize; i++ {
		prevHeaderProof := input.PrevHeaderProofs[i]
		dataHashProof := input.DataHashProofs[i]

		prevHeaderRoot, err := tmmerkle.RootFromProof(
			api, prevHeaderProof.Leaf, prevHeaderProof.Aunts[:], tmmerkle.LastBlockIDFieldIndex)
		if err != nil {
			return err
		}
		tmmerkle.AssertHashesEqual(api, prevHeaderRoot, currHash)

		prevHeaderHash := encoding.ExtractHashFromProtobuf(prevHeaderProof.Leaf, protobufHashStart)

		dataHashRoot, err := tmmerkle.RootFromProof(
			api, dataHashProof.Leaf, dataHashProof.Aunts[:], tmmerkle.DataHashFieldIndex)
		if err != nil {
			return err
		}
		tmmerkle.AssertHashesEqual(api, dataHashRoot, prevHeaderHash)

		currHash = prevHeaderHash
	}

	tmmerkle.AssertHashesEqual(api, currHash, input.TrustedHeader.Header)
	return nil
}

// ProveDataCommitment adds both the commitment constraints and the chain
// constraints to the circuit and returns the commitment root for the caller
// to bind against the claimed value. The root is provably the data-hash
// commitment of the windowSize blocks starting at the trusted header, and
// that header sequence is provably linked back from the current header.
//
// dataHashes is ordered by ascending height while the walk proofs run from
// the current header backwards, so committed hash i is bound to the
// authenticated data-hash leaf of walk step windowSize-1-i.
func ProveDataCommitment(api frontend.API, input HeaderChainInput, dataHashes []tmmerkle.Hash, nbLeaves int) (tmmerkle.Hash, error) {
	windowSize := len(dataHashes)
	if len(input.DataHashProofs) != windowSize {
		return tmmerkle.Hash{}, errors.New("data hash count does not match proof window")
	}

	root, err := DataCommitment(api, dataHashes, input.TrustedHeader.Height, nbLeaves)
	if err != nil {
		return tmmerkle.Hash{}, err
	}
	if err := VerifyHeaderChain(api, input); err != nil {
		return tmmerkle.Hash{}, err
	}

	for i := range dataHashes {
		extracted := encoding.ExtractHashFromProtobuf(input.DataHashProofs[windowSize-1-i].Leaf, protobufHashStart)
		tmmerkle.AssertHashesEqual(api, extracted, dataHashes[i])
	}
	return root, nil
}
