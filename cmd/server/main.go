package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/keeper/internal/buildinfo"
	"github.com/dmitrijs2005/keeper/internal/server"
	"github.com/dmitrijs2005/keeper/internal/server/config"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx := context.Background()
	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		os.Exit(1)
	}

	runErr := app.Run(ctx)
	_ = app.Close()
	if runErr != nil {
		os.Exit(1)
	}
}
