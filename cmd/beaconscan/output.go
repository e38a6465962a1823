package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// styles holds color formatters for human output
type styles struct {
	heading  *color.Color
	value    *color.Color
	interval *color.Color
	position *color.Color
	muted    *color.Color
}

// newStyles creates color formatters for human output
// enabled=false respects --color=never and the NO_COLOR env var
func newStyles(enabled bool) *styles {
	s := &styles{
		heading:  color.New(color.Bold),
		value:    color.New(color.Bold, color.FgHiGreen),
		interval: color.New(color.FgYellow),
		position: color.New(color.Bold, color.FgHiBlue),
		muted:    color.New(color.FgHiBlack),
	}

	if !enabled {
		s.heading.DisableColor()
		s.value.DisableColor()
		s.interval.DisableColor()
		s.position.DisableColor()
		s.muted.DisableColor()
	}

	return s
}

// resolveStyles applies a --color mode: auto, always or never.
func resolveStyles(mode string) (*styles, error) {
	switch mode {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	case "auto", "":
		// Check if stdout is a TTY and NO_COLOR is not set
		if !term.IsTerminal(int(os.Stdout.Fd())) || os.Getenv("NO_COLOR") != "" {
			color.NoColor = true
		} else {
			color.NoColor = false
		}
	default:
		return nil, fmt.Errorf("unknown color mode %q (want auto, always or never)", mode)
	}
	return newStyles(!color.NoColor), nil
}

func checkFormat(format string) error {
	switch format {
	case "human", "json":
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want human or json)", format)
	}
}

func outputJSON(cmd *cobra.Command, v any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
