package main

import "github.com/ZERO20/latai-labs-etl-test/internal/cli"

func main() {
	cli.Execute()
}
