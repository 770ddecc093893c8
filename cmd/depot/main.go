package main

import "github.com/xraph/depot/cmd/depot/cmd"

func main() {
	cmd.Execute()
}
