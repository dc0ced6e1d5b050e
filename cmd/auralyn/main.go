package main

import "github.com/tessro/auralyn/internal/cli"

func main() {
	cli.Execute()
}
