package main

import "github.com/icco/rudiments/cmd"

func main() {
	cmd.Execute()
}
