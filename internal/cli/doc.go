// Package cli implements the command-line interface for dxp-leaderboard.
//
// The cli package wires configuration, the scraper, the optional Redis cache, the
// aggregator and the notifiers into Cobra commands: run (the default), show, watch
// and teams.
package cli
