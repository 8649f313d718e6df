package main

import (
	"os"

	"github.com/scan-io-git/issue-tracker/cmd"
)

func main() {
	code := cmd.Execute()
	os.Exit(code)
}
