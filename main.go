package main

import "github.com/Vidhant007/cora/cmd"

func main() {
	cmd.Execute()
}
