package blobstream

import (
	"encoding/json"
	"os"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/math/uints"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"

	"github.com/succinctlabs/blobstream-gnark/blobstream/tmmerkle"
)

// InclusionProofInput is the serialized form of a Merkle inclusion proof.
type InclusionProofInput struct {
	Leaf  hexutil.Bytes `json:"leaf"`
	Aunts []common.Hash `json:"aunts"`
}

// HeaderInput is the serialized form of an attested header.
type HeaderInput struct {
	HeaderHash       common.Hash   `json:"header_hash"`
	Height           uint64        `json:"height"`
	HeightProofAunts []common.Hash `json:"height_proof_aunts"`
	HeightByteLength uint32        `json:"height_byte_length"`
}

// ProofInput carries everything a prover needs for one window: the claimed
// commitment, the per-block data hashes and heights, and the header-chain
// proofs ordered from the current header back to the trusted header.
type ProofInput struct {
	WindowSize         int                   `json:"window_size"`
	NbLeaves           int                   `json:"nb_leaves"`
	DataHashes         []common.Hash         `json:"data_hashes"`
	BlockHeights       []uint64              `json:"block_heights"`
	DataCommitmentRoot common.Hash           `json:"data_commitment_root"`
	CurrentHeader      HeaderInput           `json:"current_header"`
	TrustedHeader      HeaderInput           `json:"trusted_header"`
	DataHashProofs     []InclusionProofInput `json:"data_hash_proofs"`
	PrevHeaderProofs   []InclusionProofInput `json:"prev_header_proofs"`
}

// LoadProofInputFromPath reads and decodes a proof input JSON file.
func LoadProofInputFromPath(path string) (ProofInput, error) {
	var input ProofInput
	data, err := os.ReadFile(path)
	if err != nil {
		return input, errors.Wrap(err, "reading proof input")
	}
	if err := json.Unmarshal(data, &input); err != nil {
		return input, errors.Wrap(err, "decoding proof input")
	}
	return input, nil
}

// WriteToPath encodes the proof input as JSON and writes it to path.
func (in ProofInput) WriteToPath(path string) error {
	data, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding proof input")
	}
	return errors.Wrap(os.WriteFile(path, data, 0o644), "writing proof input")
}

// Validate checks the structural invariants the circuit relies on: matching
// window lengths, proof depths, and leaf sizes.
func (in ProofInput) Validate() error {
	if in.WindowSize <= 0 {
		return errors.New("window size must be positive")
	}
	if len(in.DataHashes) != in.WindowSize || len(in.BlockHeights) != in.WindowSize {
		return errors.New("data hashes and block heights must match window size")
	}
	if len(in.DataHashProofs) != in.WindowSize || len(in.PrevHeaderProofs) != in.WindowSize {
		return errors.New("proof windows must match window size")
	}
	for _, p := range in.DataHashProofs {
		if len(p.Leaf) != ProtobufHashBytes {
			return errors.Errorf("data hash leaf must be %d bytes", ProtobufHashBytes)
		}
		if len(p.Aunts) != tmmerkle.ProofDepth {
			return errors.Errorf("proofs must have depth %d", tmmerkle.ProofDepth)
		}
	}
	for _, p := range in.PrevHeaderProofs {
		if len(p.Leaf) != ProtobufBlockIDBytes {
			return errors.Errorf("prev header leaf must be %d bytes", ProtobufBlockIDBytes)
		}
		if len(p.Aunts) != tmmerkle.ProofDepth {
			return errors.Errorf("proofs must have depth %d", tmmerkle.ProofDepth)
		}
	}
	if len(in.CurrentHeader.HeightProofAunts) != tmmerkle.ProofDepth ||
		len(in.TrustedHeader.HeightProofAunts) != tmmerkle.ProofDepth {
		return errors.Errorf("height proofs must have depth %d", tmmerkle.ProofDepth)
	}
	return nil
}

// NewCircuitFromInput builds a full witness assignment from a proof input.
func NewCircuitFromInput(in ProofInput) (*Circuit, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	c := NewCircuit(in.WindowSize, in.NbLeaves)
	c.DataCommitmentRoot = hashWires(in.DataCommitmentRoot)
	c.CurrentHeaderHash = hashWires(in.CurrentHeader.HeaderHash)
	c.TrustedHeaderHash = hashWires(in.TrustedHeader.HeaderHash)
	c.CurrentHeight = in.CurrentHeader.Height
	c.TrustedHeight = in.TrustedHeader.Height

	for i := 0; i < in.WindowSize; i++ {
		c.DataHashes[i] = hashWires(in.DataHashes[i])
		c.BlockHeights[i] = in.BlockHeights[i]
		c.Chain.DataHashProofs[i] = proofWires(in.DataHashProofs[i])
		c.Chain.PrevHeaderProofs[i] = proofWires(in.PrevHeaderProofs[i])
	}

	c.Chain.CurrentHeader = headerWires(in.CurrentHeader)
	c.Chain.TrustedHeader = headerWires(in.TrustedHeader)
	return c, nil
}

// NewPublicAssignment builds an assignment carrying only the public inputs,
// for proof verification without the prover witness.
func NewPublicAssignment(root, currentHeaderHash, trustedHeaderHash common.Hash, currentHeight, trustedHeight uint64) *Circuit {
	return &Circuit{
		DataCommitmentRoot: hashWires(root),
		CurrentHeaderHash:  hashWires(currentHeaderHash),
		TrustedHeaderHash:  hashWires(trustedHeaderHash),
		CurrentHeight:      currentHeight,
		TrustedHeight:      trustedHeight,
	}
}

func hashWires(h common.Hash) tmmerkle.Hash {
	var out tmmerkle.Hash
	copy(out[:], uints.NewU8Array(h[:]))
	return out
}

func headerWires(in HeaderInput) HeaderVariable {
	out := HeaderVariable{
		Header:           hashWires(in.HeaderHash),
		Height:           in.Height,
		HeightByteLength: in.HeightByteLength,
	}
	for i, aunt := range in.HeightProofAunts {
		out.HeightProofAunts[i] = hashWires(aunt)
	}
	return out
}

func proofWires(in InclusionProofInput) MerkleInclusionProof {
	out := MerkleInclusionProof{
		Leaf: uints.NewU8Array(in.Leaf),
	}
	for i, aunt := range in.Aunts {
		out.Aunts[i] = hashWires(aunt)
	}
	return out
}

var _ frontend.Circuit = (*Circuit)(nil)
