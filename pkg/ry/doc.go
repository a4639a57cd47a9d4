// ABOUTME: Package documentation for the host-facing terminal core API.
// ABOUTME: ScreenSize and NextKeypress are the only primitives hosts need.

// Package ry exposes the terminal core to an embedding application through
// two operations: ScreenSize and NextKeypress. A Session owns raw mode for
// its lifetime; Ctrl-C never reaches the application, it restores the
// terminal and ends the process.
package ry
