package main

import "github.com/nerdfault/quill/cmd"

func main() {
	cmd.Execute()
}
