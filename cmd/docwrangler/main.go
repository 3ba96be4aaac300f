package main

import "github.com/diogo/docwrangler/internal/commands"

func main() {
	commands.Execute()
}
