package main

import (
	"log"
	"os"

	"tanks/server"
)

func main() {
	if err := server.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
