package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/succinctlabs/blobstream-gnark/blobstream/fixture"
)

var fixtureCmdTrustedHeight uint64
var fixtureCmdWindowSize int
var fixtureCmdNbLeaves int
var fixtureCmdWitnessPath string

func init() {
	fixtureCmd.Flags().Uint64Var(&fixtureCmdTrustedHeight, "trusted-height", 3800, "height of the trusted header")
	fixtureCmd.Flags().IntVar(&fixtureCmdWindowSize, "window", 4, "number of blocks per commitment window")
	fixtureCmd.Flags().IntVar(&fixtureCmdNbLeaves, "leaves", 4, "commitment tree leaf capacity, a power of two")
	fixtureCmd.Flags().StringVar(&fixtureCmdWitnessPath, "witness", "witness.json", "output proof input JSON path")
}

var fixtureCmd = &cobra.Command{
	Use:   "fixture",
	Short: "Generate a deterministic proof input for development",
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := fixture.GenerateHeaderChain(fixtureCmdTrustedHeight, fixtureCmdWindowSize, fixtureCmdNbLeaves)
		if err != nil {
			return err
		}
		if err := input.WriteToPath(fixtureCmdWitnessPath); err != nil {
			return err
		}
		log.Info().
			Uint64("trusted_height", input.TrustedHeader.Height).
			Uint64("current_height", input.CurrentHeader.Height).
			Str("witness", fixtureCmdWitnessPath).
			Msg("wrote fixture witness")
		return nil
	},
}
