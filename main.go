package main

import "dirpack/cmd"

func main() {
	cmd.Execute()
}
