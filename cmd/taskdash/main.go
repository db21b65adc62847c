package main

import "github.com/sandeepkv93/taskdash/internal/cli"

func main() {
	cli.Execute()
}
