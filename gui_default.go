//go:build !console

package main

import (
	"context"
	"fmt"

	webview "github.com/webview/webview_go"
)

// runEmbeddedUI starts the web server on a free port and shows it in an
// embedded browser window
func runEmbeddedUI(config *Config) error {
	store, err := LoadStore(context.Background(), DataSource(config.Data))
	if err != nil {
		return fmt.Errorf("load data: %w", err)
	}

	// The window always talks to a private server
	embedded := *config
	embedded.Server.Addr = "localhost:0"
	embedded.Server.OpenBrowser = false

	ws, err := NewWebServer(&embedded, NewStoreHolder(store), nil)
	if err != nil {
		return err
	}

	url, cleanup, err := ws.StartForEmbedded()
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	defer cleanup()

	// Create webview window (false = no debug mode)
	w := webview.New(false)
	defer w.Destroy()

	w.SetTitle(config.UI.Title)
	w.SetSize(config.UI.Width, config.UI.Height, webview.HintNone)
	w.Navigate(url)

	// Run blocks until window is closed
	w.Run()

	return nil
}

// runGUI starts the graphical user interface (uses embedded browser)
func runGUI(config *Config) error {
	return runEmbeddedUI(config)
}
