package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{"  ____   ___      _      ", "#38bdf8"},
	{" | __ ) / _ \\    / \\     ", "#22d3ee"},
	{" |  _ \\| | | |  / _ \\    ", "#2dd4bf"},
	{" | |_) | |_| | / ___ \\   ", "#34d399"},
	{" |____/ \\__\\_\\/_/   \\_\\  insight", "#4ade80"},
}

// PrintBanner writes the chat banner to w, coloured when w is a terminal.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w)
	for _, line := range bannerLines {
		fmt.Fprintln(w, out.String(line.text).Foreground(out.Color(line.color)))
	}
	fmt.Fprintln(w, out.String("  "+version).Faint())
	fmt.Fprintln(w)
}
