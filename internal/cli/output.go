package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// ── Output helpers ────────────────────────────────────────────────────────────
// Results go to stdout; everything else is a diagnostic on stderr.
//
//   ✗  error / failure
//   ⚠  warning

// printErr prints an error line.
func printErr(w io.Writer, msg string) {
	fmt.Fprintf(w, "  ✗  %s\n", msg)
}

// printWarn prints a warning line.
func printWarn(w io.Writer, msg string) {
	fmt.Fprintf(w, "  ⚠  %s\n", msg)
}

// printJSON writes v as 2-space indented JSON without HTML escaping.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
