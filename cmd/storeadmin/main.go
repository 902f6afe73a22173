package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/vothnha26/final-sub001/internal/app"
)

func main() {
	// Cancel in-flight requests on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := app.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
