package main

import (
	"github.com/geomarket/geomarketd/internal/cli"
)

func main() {
	cli.Execute()
}
