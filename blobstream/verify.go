package blobstream

import (
	"os"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/plonk"
	"github.com/consensys/gnark/backend/witness"
	"github.com/consensys/gnark/frontend"
	"github.com/pkg/errors"
)

// VerifyGroth16 checks a serialized groth16 proof against the verifying key
// in dataDir and the proof's own public inputs.
func VerifyGroth16(dataDir, proofPath string) error {
	proof, err := LoadProofFromPath(proofPath)
	if err != nil {
		return err
	}
	gnarkProof, err := proof.groth16Proof()
	if err != nil {
		return err
	}

	vkFile, err := os.Open(dataDir + "/" + groth16VkPath)
	if err != nil {
		return errors.Wrap(err, "opening verifying key")
	}
	defer vkFile.Close()
	vk := groth16.NewVerifyingKey(ecc.BN254)
	if _, err := vk.ReadFrom(vkFile); err != nil {
		return errors.Wrap(err, "reading verifying key")
	}

	publicWitness, err := proof.publicWitness()
	if err != nil {
		return err
	}
	return errors.Wrap(groth16.Verify(gnarkProof, vk, publicWitness), "verifying proof")
}

// VerifyPlonk checks a serialized plonk proof against the verifying key in
// dataDir and the proof's own public inputs.
func VerifyPlonk(dataDir, proofPath string) error {
	proof, err := LoadProofFromPath(proofPath)
	if err != nil {
		return err
	}
	gnarkProof, err := proof.plonkProof()
	if err != nil {
		return err
	}

	vkFile, err := os.Open(dataDir + "/" + plonkVkPath)
	if err != nil {
		return errors.Wrap(err, "opening verifying key")
	}
	defer vkFile.Close()
	vk := plonk.NewVerifyingKey(ecc.BN254)
	if _, err := vk.ReadFrom(vkFile); err != nil {
		return errors.Wrap(err, "reading verifying key")
	}

	publicWitness, err := proof.publicWitness()
	if err != nil {
		return err
	}
	return errors.Wrap(plonk.Verify(gnarkProof, vk, publicWitness), "verifying proof")
}

func (p Proof) publicWitness() (witness.Witness, error) {
	assignment := NewPublicAssignment(
		p.PublicInputs.DataCommitmentRoot,
		p.PublicInputs.CurrentHeaderHash,
		p.PublicInputs.TrustedHeaderHash,
		p.PublicInputs.CurrentHeight,
		p.PublicInputs.TrustedHeight,
	)
	w, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return nil, errors.Wrap(err, "building public witness")
	}
	return w, nil
}
