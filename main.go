package main

import "repoguard/cmd"

func main() {
	cmd.Execute()
}
