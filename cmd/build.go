package cmd

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/succinctlabs/blobstream-gnark/blobstream"
)

var buildCmdDataDir string
var buildCmdBackend string
var buildCmdWindowSize int
var buildCmdNbLeaves int

func init() {
	buildCmd.Flags().StringVar(&buildCmdDataDir, "data", "", "artifact directory")
	buildCmd.Flags().StringVar(&buildCmdBackend, "backend", "groth16", "proving backend: groth16 or plonk")
	buildCmd.Flags().IntVar(&buildCmdWindowSize, "window", 4, "number of blocks per commitment window")
	buildCmd.Flags().IntVar(&buildCmdNbLeaves, "leaves", 4, "commitment tree leaf capacity, a power of two")
	buildCmd.MarkFlagRequired("data")
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Compile the circuit, run the setup, and write the artifacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := os.MkdirAll(buildCmdDataDir, 0o755); err != nil {
			return errors.Wrap(err, "creating data directory")
		}
		switch buildCmdBackend {
		case "groth16":
			return blobstream.BuildGroth16(buildCmdDataDir, buildCmdWindowSize, buildCmdNbLeaves)
		case "plonk":
			return blobstream.BuildPlonk(buildCmdDataDir, buildCmdWindowSize, buildCmdNbLeaves)
		default:
			return errors.Errorf("unknown backend %q", buildCmdBackend)
		}
	},
}
