// Package main hosts the viewpulse CLI entrypoint and command graph.
//
// The Cobra command tree loads configuration once, opens the configured store
// per command, and hands work to the internal pipeline. Read commands render
// stored growth, stats, and ranking artifacts as tables or JSON. A request for
// data that does not exist exits with status 2, distinct from failures.
//
// Keep this package thin: behavior belongs in internal packages and is only
// surfaced here.
package main
