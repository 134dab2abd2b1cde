package main

import (
	"fmt"
	"os"

	"github.com/go-bond/algoperf/api"
)

func main() {
	app := api.NewCLI(nil)

	if err := app.Run(os.Args); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "[Error] %s\n", err.Error())
		os.Exit(1)
	}
}
