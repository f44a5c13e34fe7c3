package main

import (
	"os"

	"github.com/Leorodrigs/deathstore-storefront/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
