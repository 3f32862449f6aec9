package main

import (
	"log"

	"github.com/kubescenarios/kubescenarios/pkg/api"
)

func main() {
	if err := api.Serve(); err != nil {
		log.Fatal(err)
	}
}
