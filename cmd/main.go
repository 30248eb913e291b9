package main

import "github.com/termolab/pyrofit/internal/cli"

func main() {
	cli.Execute()
}
