package main

import "github.com/smartspend/smartspend-api/cmd"

func main() {
	cmd.Execute()
}
