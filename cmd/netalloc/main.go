// main.go - netalloc entry point.

package main

import "github.com/katalvlaran/netalloc/cmd/netalloc/app"

func main() {
	app.Execute()
}
