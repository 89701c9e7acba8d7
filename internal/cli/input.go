package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

// readSource reads the file named by args[0], or stdin when there is no
// argument or it is "-".
func readSource(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		return string(b), err
	}
	b, err := os.ReadFile(args[0])
	return string(b), err
}
