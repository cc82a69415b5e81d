package main

import "dataomni/schemascore/cmd"

func main() {
	cmd.Execute()
}
