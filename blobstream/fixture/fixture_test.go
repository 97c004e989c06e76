package fixture

import (
	"testing"

	"github.com/cometbft/cometbft/crypto/merkle"
	"github.com/cometbft/cometbft/crypto/tmhash"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/succinctlabs/blobstream-gnark/blobstream"
	"github.com/succinctlabs/blobstream-gnark/blobstream/tmmerkle"
)

func TestFieldProofsVerify(t *testing.T) {
	prev := common.BytesToHash(tmhash.Sum([]byte("prev")))
	data := common.BytesToHash(tmhash.Sum([]byte("data")))
	h := NewHeader(3804, prev, data)

	for i := 0; i < nbHeaderFields; i++ {
		require.NoError(t, h.proofs[i].Verify(h.Hash[:], h.leaves[i]))
	}
}

func TestBlockIDLeafEmbedsPrevHash(t *testing.T) {
	prev := common.BytesToHash(tmhash.Sum([]byte("prev")))
	data := common.BytesToHash(tmhash.Sum([]byte("data")))
	h := NewHeader(3804, prev, data)

	leaf := h.leaves[tmmerkle.LastBlockIDFieldIndex]
	require.Len(t, leaf, blobstream.ProtobufBlockIDBytes)
	require.Equal(t, prev[:], leaf[2:34])

	dataLeaf := h.leaves[tmmerkle.DataHashFieldIndex]
	require.Len(t, dataLeaf, blobstream.ProtobufHashBytes)
	require.Equal(t, data[:], dataLeaf[2:])
}

func TestEncodeDataRootTuple(t *testing.T) {
	hash := common.HexToHash("0xffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff")
	tuple := EncodeDataRootTuple(256, hash)

	expected := make([]byte, 64)
	expected[30] = 1
	copy(expected[32:], hash[:])
	require.Equal(t, expected, tuple)
}

func TestDataCommitmentRoot(t *testing.T) {
	hashes := []common.Hash{
		common.BytesToHash(tmhash.Sum([]byte("a"))),
		common.BytesToHash(tmhash.Sum([]byte("b"))),
		common.BytesToHash(tmhash.Sum([]byte("c"))),
	}
	root := DataCommitmentRoot(3800, hashes)

	tuples := make([][]byte, len(hashes))
	for i, h := range hashes {
		tuples[i] = EncodeDataRootTuple(3800+uint64(i), h)
	}
	require.Equal(t, merkle.HashFromByteSlices(tuples), root[:])
}

func TestVarintLength(t *testing.T) {
	cases := map[uint64]uint32{
		0:         1,
		1:         1,
		127:       1,
		128:       2,
		3804:      2,
		1 << 62:   9,
		1<<63 - 1: 9,
	}
	for value, expected := range cases {
		require.Equal(t, expected, VarintLength(value), "value %d", value)
	}
}

func TestGenerateHeaderChainConsistency(t *testing.T) {
	input, err := GenerateHeaderChain(3800, 4, 4)
	require.NoError(t, err)
	require.NoError(t, input.Validate())

	require.Equal(t, uint64(3800), input.TrustedHeader.Height)
	require.Equal(t, uint64(3804), input.CurrentHeader.Height)

	for i := 0; i < input.WindowSize; i++ {
		require.Equal(t, uint64(3800+i), input.BlockHeights[i])

		// Walk step i authenticates the data hash of block 3803-i.
		leaf := input.DataHashProofs[i].Leaf
		require.Equal(t, input.DataHashes[input.WindowSize-1-i][:], []byte(leaf[2:]))
	}

	require.Equal(t,
		DataCommitmentRoot(3800, input.DataHashes),
		input.DataCommitmentRoot)
}

func TestGenerateDataCommitmentMatchesChain(t *testing.T) {
	input, err := GenerateHeaderChain(3800, 4, 4)
	require.NoError(t, err)

	hashes, root := GenerateDataCommitment(3800, 4)
	require.Equal(t, input.DataHashes, hashes)
	require.Equal(t, input.DataCommitmentRoot, root)
}

func TestGenerateHeaderChainIsDeterministic(t *testing.T) {
	a, err := GenerateHeaderChain(100, 2, 2)
	require.NoError(t, err)
	b, err := GenerateHeaderChain(100, 2, 2)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestGenerateHeaderChainRejectsBadShape(t *testing.T) {
	_, err := GenerateHeaderChain(100, 0, 4)
	require.Error(t, err)
	_, err = GenerateHeaderChain(100, 3, 3)
	require.Error(t, err)
	_, err = GenerateHeaderChain(100, 4, 2)
	require.Error(t, err)
}
