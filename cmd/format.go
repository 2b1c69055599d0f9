package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/alpkeskin/gotoon"
	"github.com/fatih/color"
)

// fatih/color disables itself when stdout is not a terminal
var (
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	headerColor  = color.New(color.FgBlue, color.Bold)
	labelColor   = color.New(color.FgWhite, color.Bold)
	valueColor   = color.New(color.FgHiBlack)
)

func printHeader(title string) {
	_, _ = headerColor.Println(title)
	fmt.Println(strings.Repeat("=", 50))
}

func printSection(title string) {
	fmt.Println()
	_, _ = headerColor.Printf("▸ %s\n", title)
}

func printSuccess(msg string) {
	_, _ = successColor.Printf("✓ %s\n", msg)
}

func printWarning(msg string) {
	_, _ = warningColor.Printf("⚠ %s\n", msg)
}

// printError writes to stderr
func printError(msg string) {
	_, _ = errorColor.Fprintf(os.Stderr, "✗ %s\n", msg)
}

func printLabelValue(label, value string) {
	_, _ = labelColor.Printf("  %s: ", label)
	_, _ = valueColor.Println(value)
}

// printStructured renders v as JSON or toon. It reports false when neither
// format was requested so the caller falls back to human output.
func printStructured(v any, asJSON, asToon bool) (bool, error) {
	switch {
	case asJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return true, fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return true, nil
	case asToon:
		out, err := gotoon.Encode(v)
		if err != nil {
			return true, fmt.Errorf("failed to encode toon: %w", err)
		}
		fmt.Println(out)
		return true, nil
	default:
		return false, nil
	}
}
