// Package main provides the docscrawl CLI entrypoint.
package main

func main() {
	Execute()
}
