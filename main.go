package main

import "github.com/theirongolddev/strive/cmd"

func main() {
	cmd.Execute()
}
