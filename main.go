package main

import "github.com/licensegate/licensegate/internal/cli"

func main() {
	cli.Execute()
}
