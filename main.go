package main

import (
	"log"

	"github.com/gridlens/gridlens/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
