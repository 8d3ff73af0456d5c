// SPDX-License-Identifier: MIT

// Package cli implements the lvsketch command-line interface.
//
// # Commands
//
//   - apply:  sketch a CSV matrix with the transform described by a config file.
//   - verify: run the configured transform on an in-process process grid for
//     every supported distribution and compare against the local result.
//
// # Logging
//
// Every command supports --verbose (-v) for debug-level logging, which also
// turns on the transform's own construction and apply events.
package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

const appName = "lvsketch"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

var (
	version = "dev" // semantic version, injected via ldflags
	commit  string  // git commit SHA
)

// SetVersion sets the version information displayed by --version.
func SetVersion(v, c string) {
	version = v
	commit = c
}

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "lvsketch applies randomized sketching transforms to matrices",
		Long:         `lvsketch compresses the rows or columns of a matrix with random projections, signed hashes or kernel feature maps, locally or on a simulated process grid.`,
		Version:      version,
		SilenceUsage: true,
	}
	root.SetVersionTemplate(fmt.Sprintf("%s %s\ncommit: %s\n", appName, version, commit))

	root.AddCommand(c.applyCommand())
	root.AddCommand(c.verifyCommand())

	return root
}
