package main

import "ppdeploy/cmd/cli/app/cmd"

func main() {
	cmd.Execute()
}
