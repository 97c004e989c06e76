package blobstream_test

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/test"
	"github.com/stretchr/testify/require"

	"github.com/succinctlabs/blobstream-gnark/blobstream"
	"github.com/succinctlabs/blobstream-gnark/blobstream/fixture"
)

func solve(t *testing.T, input blobstream.ProofInput) error {
	t.Helper()
	assignment, err := blobstream.NewCircuitFromInput(input)
	require.NoError(t, err)
	blueprint := blobstream.NewCircuit(input.WindowSize, input.NbLeaves)
	return test.IsSolved(blueprint, assignment, ecc.BN254.ScalarField())
}

func TestCircuitSolves(t *testing.T) {
	input, err := fixture.GenerateHeaderChain(3800, 4, 4)
	require.NoError(t, err)
	require.Equal(t, uint64(3804), input.CurrentHeader.Height)
	require.Equal(t, uint64(3800), input.TrustedHeader.Height)
	require.NoError(t, solve(t, input))
}

func TestCircuitSolvesWithPadding(t *testing.T) {
	input, err := fixture.GenerateHeaderChain(100, 3, 4)
	require.NoError(t, err)
	require.NoError(t, solve(t, input))
}

func TestCircuitSolvesLargeHeight(t *testing.T) {
	input, err := fixture.GenerateHeaderChain(1234567890, 2, 2)
	require.NoError(t, err)
	require.NoError(t, solve(t, input))
}

func TestRejectsTamperedCommitment(t *testing.T) {
	input, err := fixture.GenerateHeaderChain(3800, 2, 2)
	require.NoError(t, err)
	input.DataCommitmentRoot[0] ^= 0xff
	require.Error(t, solve(t, input))
}

func TestRejectsTamperedDataHash(t *testing.T) {
	input, err := fixture.GenerateHeaderChain(3800, 2, 2)
	require.NoError(t, err)
	input.DataHashes[1][0] ^= 0xff
	require.Error(t, solve(t, input))
}

func TestRejectsWrongCurrentHeight(t *testing.T) {
	input, err := fixture.GenerateHeaderChain(3800, 2, 2)
	require.NoError(t, err)
	input.CurrentHeader.Height++
	require.Error(t, solve(t, input))
}

func TestRejectsBrokenChainLink(t *testing.T) {
	input, err := fixture.GenerateHeaderChain(3800, 2, 2)
	require.NoError(t, err)

	// Corrupt the previous-header hash inside the BlockID leaf of the
	// first hop.
	input.PrevHeaderProofs[0].Leaf[2] ^= 0xff
	require.Error(t, solve(t, input))
}

func TestRejectsForeignTrustedHeader(t *testing.T) {
	input, err := fixture.GenerateHeaderChain(3800, 2, 2)
	require.NoError(t, err)
	other, err := fixture.GenerateHeaderChain(5000, 2, 2)
	require.NoError(t, err)

	input.TrustedHeader.HeaderHash = other.TrustedHeader.HeaderHash
	require.Error(t, solve(t, input))
}

func TestValidateRejectsMalformedInput(t *testing.T) {
	input, err := fixture.GenerateHeaderChain(3800, 2, 2)
	require.NoError(t, err)
	require.NoError(t, input.Validate())

	truncated := input
	truncated.DataHashProofs = truncated.DataHashProofs[:1]
	require.Error(t, truncated.Validate())

	badLeaf := input
	badLeaf.PrevHeaderProofs = append([]blobstream.InclusionProofInput(nil), input.PrevHeaderProofs...)
	badLeaf.PrevHeaderProofs[0].Leaf = badLeaf.PrevHeaderProofs[0].Leaf[:40]
	require.Error(t, badLeaf.Validate())
}
