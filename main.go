package main

import (
	"github.com/joho/godotenv"

	"github.com/succinctlabs/blobstream-gnark/cmd"
)

func main() {
	godotenv.Load()
	cmd.Execute()
}
