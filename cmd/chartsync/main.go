package main

import (
	"github.com/c9s/chartsync/pkg/cmd"
)

func main() {
	cmd.Execute()
}
