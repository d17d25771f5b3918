package main

import "github.com/vytor/chordflash/internal/cli"

func main() {
	cli.Execute()
}
