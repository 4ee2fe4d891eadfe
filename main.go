package main

import "github.com/kennedykori/credrails-reconciler/internal/cmd"

func main() {
	cmd.Execute()
}
