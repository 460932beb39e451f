package main

import "github.com/jcrpanta/density-areas/internal/cli"

func main() {
	cli.Execute()
}
