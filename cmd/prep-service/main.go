package main

import (
	"os"

	"github.com/prepwise/prepwise/server/prepservice"
)

func main() {
	if err := prepservice.Run(); err != nil {
		os.Exit(1)
	}
}
