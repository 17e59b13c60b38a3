package main

import "github.com/forPelevin/vidsplit/internal/cli"

func main() {
	cli.Main()
}
