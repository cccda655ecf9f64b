package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/fx"
)

func run(ctx context.Context, app *fx.App) {
	if err := app.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start celestial: %v\n", err)
		os.Exit(1)
	}

	select {
	case <-ctx.Done():
	case sig := <-app.Done():
		fmt.Fprintf(os.Stderr, "celestial shutting down: %v\n", sig)
	}

	if err := app.Stop(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to stop celestial: %v\n", err)
		os.Exit(1)
	}
}
