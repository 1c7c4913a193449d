package main

import "github.com/oshokin/unity-mono-fetcher/cmd/unity-mono-fetcher/cmd"

func main() {
	cmd.Execute()
}
