package main

import (
	"context"
	"os"

	"github.com/dmitrijs2005/keeper/internal/client/cli"
)

func main() {
	os.Exit(cli.Run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
