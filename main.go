package main

import "github.com/ayunami2000/ayunsdlist/cmd"

func main() {
	cmd.Execute()
}
