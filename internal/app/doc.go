// Package app wires the store admin tooling together.
//
// It builds the API client from environment configuration and runs the
// storeadmin commands against it.
//
// Key Components:
//   - App: composition root owning the logger, token store, metrics and client
//   - Run: command dispatcher used by cmd/storeadmin
//   - Table rendering of list payloads and metric snapshots
//
// Example Usage:
//
//	a, err := app.New(config.LoadOrDefault())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer a.Close()
//	products, err := a.Client.Get(ctx, client.Literal("/api/san-pham"), client.Options{})
package app
