package main

import (
	"github.com/axellelanca/urlshortener-frontend/cmd"
	_ "github.com/axellelanca/urlshortener-frontend/cmd/cli"
	_ "github.com/axellelanca/urlshortener-frontend/cmd/server"
)

func main() {
	cmd.Execute()
}
