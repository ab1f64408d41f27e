package main

import "github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/cli"

func main() {
	cli.Execute()
}
