package main

import "github.com/KaramelBytes/sddviz-cli/cmd"

func main() {
	cmd.Execute()
}
