package main

import (
	"bullscows/internal/cli"
)

func main() {
	cli.Execute()
}
