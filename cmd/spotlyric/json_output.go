package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
)

// emit prints payload as JSON when --json is set and calls human otherwise.
func (c *commandContext) emit(cmd *cobra.Command, payload any, human func(out io.Writer)) error {
	out := cmd.OutOrStdout()
	if c.jsonOutput() {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}
	human(out)
	return nil
}
