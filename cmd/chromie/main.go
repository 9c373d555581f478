package main

import "github.com/tessro/chromie/internal/cli"

func main() {
	cli.Execute()
}
