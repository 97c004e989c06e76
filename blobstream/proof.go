package blobstream

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"os"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	groth16_bn254 "github.com/consensys/gnark/backend/groth16/bn254"
	"github.com/consensys/gnark/backend/plonk"
	plonk_bn254 "github.com/consensys/gnark/backend/plonk/bn254"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// ProofPublicInputs is the public statement a proof attests to: the
// commitment root and the two chain anchors.
type ProofPublicInputs struct {
	DataCommitmentRoot common.Hash `json:"data_commitment_root"`
	CurrentHeaderHash  common.Hash `json:"current_header_hash"`
	TrustedHeaderHash  common.Hash `json:"trusted_header_hash"`
	CurrentHeight      uint64      `json:"current_height"`
	TrustedHeight      uint64      `json:"trusted_height"`
}

// Proof is the serialized prover output. EncodedProof is the
// Solidity-calldata encoding consumed by the on-chain verifier; RawProof is
// the gnark wire encoding used by the verify command.
type Proof struct {
	PublicInputs ProofPublicInputs `json:"public_inputs"`
	EncodedProof string            `json:"encoded_proof"`
	RawProof     string            `json:"raw_proof"`
}

func publicInputsFromProofInput(in ProofInput) ProofPublicInputs {
	return ProofPublicInputs{
		DataCommitmentRoot: in.DataCommitmentRoot,
		CurrentHeaderHash:  in.CurrentHeader.HeaderHash,
		TrustedHeaderHash:  in.TrustedHeader.HeaderHash,
		CurrentHeight:      in.CurrentHeader.Height,
		TrustedHeight:      in.TrustedHeader.Height,
	}
}

// NewGroth16Proof serializes a groth16 proof. The proof is cast to its bn254
// representation to produce the Solidity calldata encoding.
func NewGroth16Proof(proof groth16.Proof, in ProofInput) Proof {
	var buf bytes.Buffer
	proof.WriteRawTo(&buf)

	p := proof.(*groth16_bn254.Proof)
	encodedProof := p.MarshalSolidity()

	return Proof{
		PublicInputs: publicInputsFromProofInput(in),
		EncodedProof: hex.EncodeToString(encodedProof),
		RawProof:     hex.EncodeToString(buf.Bytes()),
	}
}

// NewPlonkProof serializes a plonk proof.
func NewPlonkProof(proof plonk.Proof, in ProofInput) Proof {
	var buf bytes.Buffer
	proof.WriteRawTo(&buf)

	p := proof.(*plonk_bn254.Proof)
	encodedProof := p.MarshalSolidity()

	return Proof{
		PublicInputs: publicInputsFromProofInput(in),
		EncodedProof: hex.EncodeToString(encodedProof),
		RawProof:     hex.EncodeToString(buf.Bytes()),
	}
}

// LoadProofFromPath reads and decodes a serialized proof file.
func LoadProofFromPath(path string) (Proof, error) {
	var proof Proof
	data, err := os.ReadFile(path)
	if err != nil {
		return proof, errors.Wrap(err, "reading proof")
	}
	if err := json.Unmarshal(data, &proof); err != nil {
		return proof, errors.Wrap(err, "decoding proof")
	}
	return proof, nil
}

// WriteToPath serializes the proof to a JSON file.
func (p Proof) WriteToPath(path string) error {
	data, err := json.Marshal(p)
	if err != nil {
		return errors.Wrap(err, "encoding proof")
	}
	return os.WriteFile(path, data, 0644)
}

func (p Proof) groth16Proof() (groth16.Proof, error) {
	raw, err := hex.DecodeString(p.RawProof)
	if err != nil {
		return nil, errors.Wrap(err, "decoding raw proof hex")
	}
	proof := groth16.NewProof(ecc.BN254)
	if _, err := proof.ReadFrom(bytes.NewReader(raw)); err != nil {
		return nil, errors.Wrap(err, "reading proof from buffer")
	}
	return proof, nil
}

func (p Proof) plonkProof() (plonk.Proof, error) {
	raw, err := hex.DecodeString(p.RawProof)
	if err != nil {
		return nil, errors.Wrap(err, "decoding raw proof hex")
	}
	proof := plonk.NewProof(ecc.BN254)
	if _, err := proof.ReadFrom(bytes.NewReader(raw)); err != nil {
		return nil, errors.Wrap(err, "reading proof from buffer")
	}
	return proof, nil
}
