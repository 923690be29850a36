// Package storage persists the most recent leaderboard as JSON.
//
// The board is written to leaderboard.json in the data directory (by default
// ~/.local/share/dxp-leaderboard/) so `dxp-leaderboard show` can print it again
// without scraping.
package storage
