package main

import "github.com/vibast-solutions/ms-go-tripay/cmd"

func main() {
	cmd.Execute()
}
