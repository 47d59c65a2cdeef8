package main

import "proposal-ingest/cmd"

func main() {
	cmd.Execute()
}
