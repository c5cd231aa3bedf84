// Package main hosts the stationpack CLI entrypoint and command graph.
//
// The Cobra-based command tree covers the build session itself plus the
// surrounding chores: archiving and verifying the output set, inspecting
// the run ledger, printing directory filter references, and configuration
// scaffolding. It centralizes configuration resolution and structured
// logging setup so subcommands can focus on user experience.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
