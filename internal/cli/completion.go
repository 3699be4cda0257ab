package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// GenCompletion writes the completion script for shell
func GenCompletion(root *cobra.Command, shell string, out io.Writer) error {
	switch shell {
	case "bash":
		return root.GenBashCompletionV2(out, true)
	case "zsh":
		return root.GenZshCompletion(out)
	case "fish":
		return root.GenFishCompletion(out, true)
	case "powershell":
		return root.GenPowerShellCompletionWithDesc(out)
	default:
		return fmt.Errorf("unknown shell %q, supported shells: bash, zsh, fish, powershell", shell)
	}
}
