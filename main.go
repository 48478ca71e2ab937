package main

import "github.com/agentic-research/fieldpath/cmd"

func main() {
	cmd.Execute()
}
