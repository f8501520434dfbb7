package main

import "github.com/servease/servease/cmd"

func main() {
	cmd.Start()
}
