package main

import "inkwell/atlas/cmd"

func main() {
	cmd.Execute()
}
