package cmd

import (
	"github.com/spf13/cobra"

	"github.com/succinctlabs/blobstream-gnark/server"
)

var serveCmdDataDir string
var serveCmdPort string

func init() {
	serveCmd.Flags().StringVar(&serveCmdDataDir, "data", "", "artifact directory")
	serveCmd.Flags().StringVar(&serveCmdPort, "port", "8080", "port to listen on")
	serveCmd.MarkFlagRequired("data")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve proving requests over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := server.New(serveCmdDataDir)
		if err != nil {
			return err
		}
		return s.Start(serveCmdPort)
	},
}
