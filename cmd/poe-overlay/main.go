package main

import "poe-overlay/internal/cli"

func main() {
	cli.Execute()
}
