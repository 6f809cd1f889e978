package main

import "github.com/shopfront/shopfront/cmd/shopfront/cmd"

func main() {
	cmd.Execute()
}
