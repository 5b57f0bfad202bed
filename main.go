package main

import "github.com/sandwichlabs/trun/cmd"

func main() {
	cmd.Execute()
}
