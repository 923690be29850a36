package main

import "github.com/pfrederiksen/dxp-leaderboard/internal/cli"

func main() {
	cli.Execute()
}
