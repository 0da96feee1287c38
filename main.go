package main

import "github.com/shouni/go-resort-importer/cmd"

func main() {
	cmd.Execute()
}
