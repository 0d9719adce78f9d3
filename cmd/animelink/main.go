package main

import (
	"os"

	"github.com/guiyumin/animelink/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
