package main

import (
	"github.com/ccarocean/copernicus-sync/internal/cli"
)

func main() {
	cli.Execute()
}
