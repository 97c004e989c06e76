package blobstream

import (
	"bufio"
	"os"
	"time"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/plonk"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Groth16Artifacts holds a loaded groth16 build, ready to prove witnesses
// for the circuit instance it was compiled for.
type Groth16Artifacts struct {
	Params CircuitParams
	CS     constraint.ConstraintSystem
	PK     groth16.ProvingKey
	VK     groth16.VerifyingKey
}

// LoadGroth16Artifacts reads the constraint system and keys written by
// BuildGroth16.
func LoadGroth16Artifacts(dataDir string) (*Groth16Artifacts, error) {
	params, err := LoadParams(dataDir)
	if err != nil {
		return nil, err
	}

	csFile, err := os.Open(dataDir + "/" + groth16CircuitPath)
	if err != nil {
		return nil, errors.Wrap(err, "opening constraint system")
	}
	defer csFile.Close()
	cs := groth16.NewCS(ecc.BN254)
	if _, err := cs.ReadFrom(csFile); err != nil {
		return nil, errors.Wrap(err, "reading constraint system")
	}

	pkFile, err := os.Open(dataDir + "/" + groth16PkPath)
	if err != nil {
		return nil, errors.Wrap(err, "opening proving key")
	}
	defer pkFile.Close()
	pk := groth16.NewProvingKey(ecc.BN254)
	if err := pk.ReadDump(pkFile); err != nil {
		return nil, errors.Wrap(err, "reading proving key")
	}

	vkFile, err := os.Open(dataDir + "/" + groth16VkPath)
	if err != nil {
		return nil, errors.Wrap(err, "opening verifying key")
	}
	defer vkFile.Close()
	vk := groth16.NewVerifyingKey(ecc.BN254)
	if _, err := vk.ReadFrom(vkFile); err != nil {
		return nil, errors.Wrap(err, "reading verifying key")
	}

	return &Groth16Artifacts{Params: params, CS: cs, PK: pk, VK: vk}, nil
}

// Prove generates and self-verifies a groth16 proof for the given input.
// A proving failure means the witness is inconsistent; the same input will
// never succeed on retry.
func (a *Groth16Artifacts) Prove(input ProofInput) (Proof, error) {
	if input.WindowSize != a.Params.WindowSize || input.NbLeaves != a.Params.NbLeaves {
		return Proof{}, errors.Errorf(
			"witness sized for window %d / %d leaves, circuit built for %d / %d",
			input.WindowSize, input.NbLeaves, a.Params.WindowSize, a.Params.NbLeaves)
	}

	assignment, err := NewCircuitFromInput(input)
	if err != nil {
		return Proof{}, err
	}
	witness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return Proof{}, errors.Wrap(err, "building witness")
	}
	publicWitness, err := witness.Public()
	if err != nil {
		return Proof{}, errors.Wrap(err, "extracting public witness")
	}

	start := time.Now()
	proof, err := groth16.Prove(a.CS, a.PK, witness)
	if err != nil {
		return Proof{}, errors.Wrap(err, "proving")
	}
	log.Info().
		Dur("elapsed", time.Since(start)).
		Uint64("trusted_height", input.TrustedHeader.Height).
		Uint64("current_height", input.CurrentHeader.Height).
		Msg("generated groth16 proof")

	if err := groth16.Verify(proof, a.VK, publicWitness); err != nil {
		return Proof{}, errors.Wrap(err, "self-verifying proof")
	}
	return NewGroth16Proof(proof, input), nil
}

// ProveGroth16 loads the groth16 build from dataDir, proves the witness at
// witnessPath, and writes the serialized proof to proofPath.
func ProveGroth16(dataDir, witnessPath, proofPath string) error {
	artifacts, err := LoadGroth16Artifacts(dataDir)
	if err != nil {
		return err
	}
	input, err := LoadProofInputFromPath(witnessPath)
	if err != nil {
		return err
	}
	proof, err := artifacts.Prove(input)
	if err != nil {
		return err
	}
	return proof.WriteToPath(proofPath)
}

// ProvePlonk loads the plonk build from dataDir, proves the witness at
// witnessPath, and writes the serialized proof to proofPath.
func ProvePlonk(dataDir, witnessPath, proofPath string) error {
	params, err := LoadParams(dataDir)
	if err != nil {
		return err
	}

	csFile, err := os.Open(dataDir + "/" + plonkCircuitPath)
	if err != nil {
		return errors.Wrap(err, "opening constraint system")
	}
	defer csFile.Close()
	cs := plonk.NewCS(ecc.BN254)
	if _, err := cs.ReadFrom(csFile); err != nil {
		return errors.Wrap(err, "reading constraint system")
	}

	pkFile, err := os.Open(dataDir + "/" + plonkPkPath)
	if err != nil {
		return errors.Wrap(err, "opening proving key")
	}
	defer pkFile.Close()
	pk := plonk.NewProvingKey(ecc.BN254)
	if _, err := pk.UnsafeReadFrom(bufio.NewReaderSize(pkFile, 1024*1024)); err != nil {
		return errors.Wrap(err, "reading proving key")
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

	input, err := LoadProofInputFromPath(witnessPath)
	if err != nil {
		return err
	}
	if input.WindowSize != params.WindowSize || input.NbLeaves != params.NbLeaves {
		return errors.Errorf(
			"witness sized for window %d / %d leaves, circuit built for %d / %d",
			input.WindowSize, input.NbLeaves, params.WindowSize, params.NbLeaves)
	}

	assignment, err := NewCircuitFromInput(input)
	if err != nil {
		return err
	}
	witness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return errors.Wrap(err, "building witness")
	}
	publicWitness, err := witness.Public()
	if err != nil {
		return errors.Wrap(err, "extracting public witness")
	}

	start := time.Now()
	proof, err := plonk.Prove(cs, pk, witness)
	if err != nil {
		return errors.Wrap(err, "proving")
	}
	log.Info().
		Dur("elapsed", time.Since(start)).
		Uint64("trusted_height", input.TrustedHeader.Height).
		Uint64("current_height", input.CurrentHeader.Height).
		Msg("generated plonk proof")

	if err := plonk.Verify(proof, vk, publicWitness); err != nil {
		return errors.Wrap(err, "self-verifying proof")
	}
	return NewPlonkProof(proof, input).WriteToPath(proofPath)
}
