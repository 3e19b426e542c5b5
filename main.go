package main

import "github.com/nexora/cloudtask/cmd"

func main() {
	cmd.Execute()
}
