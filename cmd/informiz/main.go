package main

import (
	"fmt"
	"os"

	"github.com/informiz/chaincode/internal/apperr"
	"github.com/informiz/chaincode/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		if code := apperr.CodeOf(err); code != "" {
			fmt.Fprintf(os.Stderr, "Error [%s]: %v\n", code, err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
