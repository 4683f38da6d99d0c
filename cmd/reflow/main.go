package main

import "github.com/pagelab/reflow/cmd/reflow/cmd"

func main() {
	cmd.Execute()
}
