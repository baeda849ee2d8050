// Package main is the entry point for calcd, the calculator API server.
package main

func main() {
	Execute()
}
