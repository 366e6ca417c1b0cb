package main

import "github.com/tastycli/tasty/cmd"

func main() {
	cmd.Execute()
}
