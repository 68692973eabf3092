package main

import "github.com/fashionpod/fashionpod/internal/cmd"

func main() {
	cmd.Execute()
}
