// Command moodctl is the operator CLI for the journal store and the mood
// analyses: schema migrations, CSV seeding and offline trend, outlier and
// pattern reports.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(1)
	}
}
