package main

import "github.com/theirongolddev/tokenscan/cmd"

func main() {
	cmd.Execute()
}
