package main

import "github.com/lepinkainen/vitrine/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
