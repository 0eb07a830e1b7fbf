package main

import "gokaraju-backend/cmd/portal-cli/commands"

func main() {
	commands.Execute()
}
