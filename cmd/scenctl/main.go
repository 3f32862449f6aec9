package main

import (
	"github.com/kubescenarios/kubescenarios/pkg/cli"
)

func main() {
	cli.Execute()
}
