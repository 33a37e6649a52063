package main

import (
	"fmt"
	"os"

	"github.com/MobRulesGames/boardscene/cmd"
)

func main() {
	if err := cmd.Main(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
