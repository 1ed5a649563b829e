package main

import "github.com/panyam/fermi/cmd/fermi/commands"

func main() {
	commands.Execute()
}
