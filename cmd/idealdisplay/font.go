package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/1broseidon/idealdisplay/internal/glyph"
)

func runFont(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage: idealdisplay font inspect <path>")
		return 2
	}

	switch args[0] {
	case "inspect":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "Usage: idealdisplay font inspect <path>")
			return 2
		}
		font, err := glyph.Load(args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		printFont(os.Stdout, font)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown font subcommand: %s\n", args[0])
		return 2
	}
}

func printFont(w io.Writer, font *glyph.Font) {
	fmt.Fprintf(w, "font: %s (%d glyphs)\n", font.Name, font.Len())
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCHAR\tNAME\tSIZE\tBEARINGS\tADVANCE")
	for i := range font.Glyphs {
		g := &font.Glyphs[i]
		fmt.Fprintf(tw, "%d\t%s\t%s\t%dx%d\t%d/%d\t%d\n",
			g.ID, printable(g.ID), g.Name, g.Width, g.Height, g.Left, g.Right, g.Advance())
	}
	tw.Flush()
}

func printable(id int) string {
	if id >= 0x21 && id < 0x7f {
		return string(rune(id))
	}
	return "-"
}
