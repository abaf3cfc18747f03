package main

import (
	"github.com/daedaleanai/pbt/cmd"
)

func main() {
	cmd.Execute()
}
