package main

import "github.com/localnerve/campus-market/cmd/marketctl/commands"

func main() {
	commands.Execute()
}
