package main

import "github.com/atikulmunna/warp/internal/cmd"

func main() {
	cmd.Execute()
}
