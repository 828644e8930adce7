package main

import (
	"log"

	"github.com/mithrel/quill/internal/cli"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("quill: ")
	if err := cli.Execute(); err != nil {
		log.Fatal(err)
	}
}
