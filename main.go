package main

import "librarium/cli"

func main() {
	cli.Execute()
}
