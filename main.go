package main

import "github.com/KaramelBytes/listcutter-cli/cmd"

func main() {
	cmd.Execute()
}
