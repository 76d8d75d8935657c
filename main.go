package main

import "github.com/geonmo/NMSSMPheno/cmd"

func main() {
	cmd.Execute()
}
