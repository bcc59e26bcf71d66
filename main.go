package main

import (
	"os"

	"github.com/alantheprice/choices/cmd"
	"github.com/alantheprice/choices/pkg/utils"
)

func main() {
	err := cmd.Execute()
	logger := utils.GetLogger()
	if err != nil {
		logger.LogError(err)
	}
	if cerr := logger.Close(); cerr != nil {
		os.Stderr.WriteString("Error closing logger: " + cerr.Error() + "\n")
	}
	if err != nil {
		os.Exit(1)
	}
}
