package main

import "github.com/icco/lofi/cmd"

func main() {
	cmd.Execute()
}
