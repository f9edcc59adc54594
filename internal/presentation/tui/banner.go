package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

var bannerLines = []string{
	`                     _                                _   `,
	` _ __ __ _ _ __   __| | ___  _ __ ___   __ _ _ __| |_ `,
	`| '__/ _' | '_ \ / _' |/ _ \| '_ ' _ \ / _' | '__| __|`,
	`| | | (_| | | | | (_| | (_) | | | | | | (_| | |  | |_ `,
	`|_|  \__,_|_| |_|\__,_|\___/|_| |_| |_|\__,_|_|   \__|`,
}

var bannerColors = []string{"#f59e0b", "#ef4444", "#ec4899", "#8b5cf6", "#3b82f6"}

// PrintBanner writes the randomart banner to w, coloured as far as w's terminal allows.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w)
	for i, line := range bannerLines {
		fmt.Fprintln(w, out.String(line).Foreground(out.Color(bannerColors[i%len(bannerColors)])))
	}
	if version = strings.TrimSpace(version); version != "" {
		fmt.Fprintln(w, out.String("  v"+version).Faint())
	}
	fmt.Fprintln(w)
}
