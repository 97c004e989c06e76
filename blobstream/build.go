package blobstream

import (
	"encoding/json"
	"os"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/plonk"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/consensys/gnark/frontend/cs/scs"
	"github.com/consensys/gnark/test/unsafekzg"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var (
	groth16CircuitPath  = "groth16_circuit.bin"
	groth16PkPath       = "groth16_pk.bin"
	groth16VkPath       = "groth16_vk.bin"
	groth16ContractPath = "Groth16Verifier.sol"
	plonkCircuitPath    = "plonk_circuit.bin"
	plonkPkPath         = "plonk_pk.bin"
	plonkVkPath         = "plonk_vk.bin"
	plonkContractPath   = "PlonkVerifier.sol"
	srsPath             = "srs.bin"
	srsLagrangePath     = "srs_lagrange.bin"
	circuitParamsPath   = "circuit_params.json"
)

// CircuitParams records the blueprint sizes a build was compiled with, so
// prove can reject witness inputs for a different instance.
type CircuitParams struct {
	WindowSize int `json:"window_size"`
	NbLeaves   int `json:"nb_leaves"`
}

// BuildGroth16 compiles the circuit for the given window, runs the groth16
// setup, and writes the constraint system, proving key, verifying key, and
// the exported Solidity verifier to the data directory.
func BuildGroth16(dataDir string, windowSize, nbLeaves int) error {
	circuit := NewCircuit(windowSize, nbLeaves)

	cs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, circuit)
	if err != nil {
		return errors.Wrap(err, "compiling circuit")
	}
	log.Info().
		Int("window_size", windowSize).
		Int("nb_leaves", nbLeaves).
		Int("nb_constraints", cs.GetNbConstraints()).
		Msg("compiled data commitment circuit")

	pk, vk, err := groth16.Setup(cs)
	if err != nil {
		return errors.Wrap(err, "groth16 setup")
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return err
	}
	if err := writeParams(dataDir, windowSize, nbLeaves); err != nil {
		return err
	}

	csFile, err := os.Create(dataDir + "/" + groth16CircuitPath)
	if err != nil {
		return err
	}
	defer csFile.Close()
	if _, err := cs.WriteTo(csFile); err != nil {
		return err
	}

	pkFile, err := os.Create(dataDir + "/" + groth16PkPath)
	if err != nil {
		return err
	}
	defer pkFile.Close()
	if err := pk.WriteDump(pkFile); err != nil {
		return err
	}

	vkFile, err := os.Create(dataDir + "/" + groth16VkPath)
	if err != nil {
		return err
	}
	defer vkFile.Close()
	if _, err := vk.WriteTo(vkFile); err != nil {
		return err
	}

	contractFile, err := os.Create(dataDir + "/" + groth16ContractPath)
	if err != nil {
		return err
	}
	defer contractFile.Close()
	return vk.ExportSolidity(contractFile)
}

// BuildPlonk compiles the circuit for the given window, generates a dev SRS
// sized to it, runs the plonk setup, and writes all artifacts to the data
// directory. The dev SRS is for testing and staging; a production deployment
// substitutes a ceremony SRS in the same files.
func BuildPlonk(dataDir string, windowSize, nbLeaves int) error {
	circuit := NewCircuit(windowSize, nbLeaves)

	cs, err := frontend.Compile(ecc.BN254.ScalarField(), scs.NewBuilder, circuit)
	if err != nil {
		return errors.Wrap(err, "compiling circuit")
	}
	log.Info().
		Int("window_size", windowSize).
		Int("nb_leaves", nbLeaves).
		Int("nb_constraints", cs.GetNbConstraints()).
		Msg("compiled data commitment circuit")

	srs, srsLagrange, err := unsafekzg.NewSRS(cs)
	if err != nil {
		return errors.Wrap(err, "generating srs")
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return err
	}
	if err := writeParams(dataDir, windowSize, nbLeaves); err != nil {
		return err
	}

	srsFile, err := os.Create(dataDir + "/" + srsPath)
	if err != nil {
		return err
	}
	defer srsFile.Close()
	if _, err := srs.WriteTo(srsFile); err != nil {
		return err
	}

	srsLagrangeFile, err := os.Create(dataDir + "/" + srsLagrangePath)
	if err != nil {
		return err
	}
	defer srsLagrangeFile.Close()
	if _, err := srsLagrange.WriteTo(srsLagrangeFile); err != nil {
		return err
	}

	pk, vk, err := plonk.Setup(cs, srs, srsLagrange)
	if err != nil {
		return errors.Wrap(err, "plonk setup")
	}

	csFile, err := os.Create(dataDir + "/" + plonkCircuitPath)
	if err != nil {
		return err
	}
	defer csFile.Close()
	if _, err := cs.WriteTo(csFile); err != nil {
		return err
	}

	pkFile, err := os.Create(dataDir + "/" + plonkPkPath)
	if err != nil {
		return err
	}
	defer pkFile.Close()
	if _, err := pk.WriteTo(pkFile); err != nil {
		return err
	}

	vkFile, err := os.Create(dataDir + "/" + plonkVkPath)
	if err != nil {
		return err
	}
	defer vkFile.Close()
	if _, err := vk.WriteTo(vkFile); err != nil {
		return err
	}

	contractFile, err := os.Create(dataDir + "/" + plonkContractPath)
	if err != nil {
		return err
	}
	defer contractFile.Close()
	return vk.ExportSolidity(contractFile)
}

func writeParams(dataDir string, windowSize, nbLeaves int) error {
	data, err := json.Marshal(CircuitParams{WindowSize: windowSize, NbLeaves: nbLeaves})
	if err != nil {
		return err
	}
	return os.WriteFile(dataDir+"/"+circuitParamsPath, data, 0644)
}

// LoadParams reads the blueprint sizes recorded by a build.
func LoadParams(dataDir string) (CircuitParams, error) {
	var params CircuitParams
	data, err := os.ReadFile(dataDir + "/" + circuitParamsPath)
	if err != nil {
		return params, errors.Wrap(err, "reading circuit params")
	}
	if err := json.Unmarshal(data, &params); err != nil {
		return params, errors.Wrap(err, "decoding circuit params")
	}
	return params, nil
}
