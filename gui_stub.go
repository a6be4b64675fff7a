//go:build console

package main

import "fmt"

// runGUI is a stub for console-only builds
func runGUI(config *Config) error {
	return fmt.Errorf("desktop window not available in console build. Use the serve command and an external browser")
}
