package main

import "github.com/aalvaropc/apix/internal/cli"

func main() {
	cli.Execute()
}
