package tui

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/randomart/pkg/render"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// DefaultWidth is used when the output is not a terminal.
const DefaultWidth = 64

// upperHalf draws the top pixel as foreground and the bottom pixel as background.
const upperHalf = "▀"

// TerminalWidth returns the column count of f, or DefaultWidth when f is not a terminal.
func TerminalWidth(f *os.File) int {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return DefaultWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return DefaultWidth
	}
	return w
}

// Preview draws tree as a cols×cols image, two pixels per character cell.
func Preview(ctx context.Context, w io.Writer, profile termenv.Profile, tree render.Evaluator, cols int) error {
	if cols%2 == 1 {
		cols--
	}
	img, err := render.Render(ctx, tree, cols)
	if err != nil {
		return err
	}

	out := termenv.NewOutput(w, termenv.WithProfile(profile))
	for y := 0; y < cols; y += 2 {
		for x := 0; x < cols; x++ {
			top, bottom := img.NRGBAAt(x, y), img.NRGBAAt(x, y+1)
			cell := out.String(upperHalf).
				Foreground(out.Color(hex(top.R, top.G, top.B))).
				Background(out.Color(hex(bottom.R, bottom.G, bottom.B)))
			fmt.Fprint(w, cell)
		}
		fmt.Fprintln(w)
	}
	return nil
}

func hex(r, g, b uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}
