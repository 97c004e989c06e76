package cmd

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/succinctlabs/blobstream-gnark/blobstream"
)

var proveCmdDataDir string
var proveCmdBackend string
var proveCmdWitnessPath string
var proveCmdProofPath string

func init() {
	proveCmd.Flags().StringVar(&proveCmdDataDir, "data", "", "artifact directory")
	proveCmd.Flags().StringVar(&proveCmdBackend, "backend", "groth16", "proving backend: groth16 or plonk")
	proveCmd.Flags().StringVar(&proveCmdWitnessPath, "witness", "", "proof input JSON path")
	proveCmd.Flags().StringVar(&proveCmdProofPath, "proof", "proof.json", "output proof JSON path")
	proveCmd.MarkFlagRequired("data")
	proveCmd.MarkFlagRequired("witness")
}

var proveCmd = &cobra.Command{
	Use:   "prove",
	Short: "Generate a proof for a witnessed window of blocks",
	RunE: func(cmd *cobra.Command, args []string) error {
		switch proveCmdBackend {
		case "groth16":
			return blobstream.ProveGroth16(proveCmdDataDir, proveCmdWitnessPath, proveCmdProofPath)
		case "plonk":
			return blobstream.ProvePlonk(proveCmdDataDir, proveCmdWitnessPath, proveCmdProofPath)
		default:
			return errors.Errorf("unknown backend %q", proveCmdBackend)
		}
	},
}
