package main

import (
	"github.com/vaibhavkarve/graphsat/pkg/cmd"
)

func main() {
	cmd.Execute()
}
