package main

import "github.com/example/pista-scheduler/cmd"

func main() {
	cmd.Execute()
}
