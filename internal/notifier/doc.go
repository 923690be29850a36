// Package notifier delivers leaderboards to people.
//
// Stdout (dry run) and Telegram receive the full per-team tables. Twitter only has
// room for the one-line standings.
package notifier
