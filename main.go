package main

import "github.com/naka-gawa/repo-metrics/cmd"

func main() {
	cmd.Execute()
}
