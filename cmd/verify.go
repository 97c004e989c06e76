package cmd

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/succinctlabs/blobstream-gnark/blobstream"
)

var verifyCmdDataDir string
var verifyCmdBackend string
var verifyCmdProofPath string

func init() {
	verifyCmd.Flags().StringVar(&verifyCmdDataDir, "data", "", "artifact directory")
	verifyCmd.Flags().StringVar(&verifyCmdBackend, "backend", "groth16", "proving backend: groth16 or plonk")
	verifyCmd.Flags().StringVar(&verifyCmdProofPath, "proof", "proof.json", "proof JSON path")
	verifyCmd.MarkFlagRequired("data")
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a serialized proof against its public inputs",
	RunE: func(cmd *cobra.Command, args []string) error {
		var err error
		switch verifyCmdBackend {
		case "groth16":
			err = blobstream.VerifyGroth16(verifyCmdDataDir, verifyCmdProofPath)
		case "plonk":
			err = blobstream.VerifyPlonk(verifyCmdDataDir, verifyCmdProofPath)
		default:
			return errors.Errorf("unknown backend %q", verifyCmdBackend)
		}
		if err != nil {
			return err
		}
		log.Info().Str("proof", verifyCmdProofPath).Msg("proof verified")
		return nil
	},
}
