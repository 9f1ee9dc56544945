package main

import "github.com/naka-gawa/lighthouse-check/cmd"

func main() {
	cmd.Execute()
}
