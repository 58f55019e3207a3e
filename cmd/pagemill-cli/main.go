package main

import "github.com/fteye/pagemill/cmd/pagemill-cli/cmd"

func main() {
	cmd.Execute()
}
