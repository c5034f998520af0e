// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI wraps a generation run in three views:
//  1. [ConfirmView] : Review the requested artists and performance limit
//  2. [RunView] : Monitor real-time pipeline progress
//  3. [ResultView] : Browse resolved tracks, missing songs, and retry the misses
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the generation engine, providing non-blocking status reporting during runs.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
