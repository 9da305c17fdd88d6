package main

import "neon-cinema-cli/cmd"

func main() {
	cmd.Execute()
}
