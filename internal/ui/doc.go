// Package ui provides terminal styling for the hearth-ctl CLI.
//
// This package holds the Lipgloss color palette and shared styles used by
// the watch TUI and by one-shot command output. Keeping them here keeps the
// watch view and the plain commands visually consistent.
//
// # Logging Integration
//
// This package expects logging to be controlled via the HEARTH_LOG_LEVEL
// environment variable. When unset or empty, zap logging is silent, allowing
// the curated UI output to be displayed cleanly.
package ui
