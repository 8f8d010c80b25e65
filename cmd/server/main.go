package main

import (
	"log"
	"os"

	"selfhelpblog/internal/cli"
)

func main() {
	if err := cli.NewApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
