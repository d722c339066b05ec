package main

import (
	"os"

	"github.com/gitscrub/gitscrub/cmd"
)

func main() {
	code := cmd.Execute()
	os.Exit(code)
}
