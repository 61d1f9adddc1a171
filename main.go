package main

import "github.com/kamal-hamza/folio-cli/cmd"

func main() {
	cmd.Execute()
}
