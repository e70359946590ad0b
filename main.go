package main

import "lead-scorer/cmd"

func main() {
	cmd.Execute()
}
