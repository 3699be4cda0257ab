package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/aitk/internal/cli"
	"github.com/arthur-debert/aitk/pkg/errors"
	"github.com/arthur-debert/aitk/pkg/style"
)

func main() {
	rootCmd := cli.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		msg := fmt.Sprintf("ERROR: %s", errors.Message(err))
		fmt.Fprintln(os.Stderr, style.ErrorStyle.Render(msg))
		os.Exit(1)
	}
}
