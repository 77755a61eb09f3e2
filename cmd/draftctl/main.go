package main

import "github.com/Rrens/interaction-drafts/internal/cli"

func main() {
	cli.Execute()
}
