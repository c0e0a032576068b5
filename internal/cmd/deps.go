package cmd

import "os"

var (
	envGet   = os.Getenv
	readFile = os.ReadFile
)
