package main

import "github.com/pders01/leetsync/cmd"

func main() {
	cmd.Execute()
}
