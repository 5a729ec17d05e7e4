package main

import "github.com/theirongolddev/butce/cmd"

func main() {
	cmd.Execute()
}
