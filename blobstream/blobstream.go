// Package blobstream defines the data-commitment circuit proved to the
// Blobstream contract: the claimed commitment root summarizes the data
// hashes of a window of blocks, and those blocks form an unbroken
// hash-linked chain from a trusted header to the attested current header.
package blobstream

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/math/uints"

	"github.com/succinctlabs/blobstream-gnark/blobstream/tmmerkle"
)

// Circuit proves a data commitment for a fixed window of blocks. The window
// size and leaf capacity are fixed when the blueprint is allocated; every
// in-circuit loop bound derives from them.
//
// Public inputs bind the claimed commitment and the two chain anchors; the
// header-chain witness and the per-block data hashes stay private.
type Circuit struct {
	DataCommitmentRoot tmmerkle.Hash     `gnark:",public"`
	CurrentHeaderHash  tmmerkle.Hash     `gnark:",public"`
	TrustedHeaderHash  tmmerkle.Hash     `gnark:",public"`
	CurrentHeight      frontend.Variable `gnark:",public"`
	TrustedHeight      frontend.Variable `gnark:",public"`

	DataHashes   []tmmerkle.Hash
	BlockHeights []frontend.Variable
	Chain        HeaderChainInput

	nbLeaves int
}

// NewCircuit allocates a circuit blueprint for the given window size and
// commitment-tree leaf capacity. nbLeaves must be a power of two no smaller
// than windowSize.
func NewCircuit(windowSize, nbLeaves int) *Circuit {
	if windowSize <= 0 {
		panic("blobstream: window size must be positive")
	}
	if nbLeaves < windowSize || nbLeaves&(nbLeaves-1) != 0 {
		panic("blobstream: leaf capacity must be a power of two >= window size")
	}

	c := &Circuit{
		DataHashes:   make([]tmmerkle.Hash, windowSize),
		BlockHeights: make([]frontend.Variable, windowSize),
		nbLeaves:     nbLeaves,
	}
	c.Chain.DataHashProofs = make([]MerkleInclusionProof, windowSize)
	c.Chain.PrevHeaderProofs = make([]MerkleInclusionProof, windowSize)
	for i := 0; i < windowSize; i++ {
		c.Chain.DataHashProofs[i].Leaf = make([]uints.U8, ProtobufHashBytes)
		c.Chain.PrevHeaderProofs[i].Leaf = make([]uints.U8, ProtobufBlockIDBytes)
	}
	return c
}

// WindowSize reports the number of blocks the circuit covers.
func (c *Circuit) WindowSize() int {
	return len(c.DataHashes)
}

// NbLeaves reports the commitment-tree leaf capacity.
func (c *Circuit) NbLeaves() int {
	return c.nbLeaves
}

// Define emits all constraints: the public anchors are bound to the chain
// witness, the block heights are tied to the trusted height, and the
// commitment root returned by the orchestration is asserted equal to the
// claimed public root.
func (c *Circuit) Define(api frontend.API) error {
	tmmerkle.AssertHashesEqual(api, c.Chain.CurrentHeader.Header, c.CurrentHeaderHash)
	tmmerkle.AssertHashesEqual(api, c.Chain.TrustedHeader.Header, c.TrustedHeaderHash)
	api.AssertIsEqual(c.Chain.CurrentHeader.Height, c.CurrentHeight)
	api.AssertIsEqual(c.Chain.TrustedHeader.Height, c.TrustedHeight)

	for i := range c.BlockHeights {
		api.AssertIsEqual(c.BlockHeights[i], api.Add(c.TrustedHeight, i))
	}

	root, err := ProveDataCommitment(api, c.Chain, c.DataHashes, c.nbLeaves)
	if err != nil {
		return err
	}
	tmmerkle.AssertHashesEqual(api, root, c.DataCommitmentRoot)
	return nil
}
