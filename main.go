package main

import "camkit/cmd"

func main() {
	cmd.Execute()
}
