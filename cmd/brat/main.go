// Command brat builds and runs beaver dam capacity projects.
package main

import (
	"github.com/riverscapes/brat/internal/cli"
)

func main() {
	cli.Execute()
}
