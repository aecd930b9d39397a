package main

import "github.com/diewo77/offermaster/internal/cli"

func main() {
	cli.Execute()
}
