package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/1broseidon/idealdisplay/internal/ipc"
)

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: idealdisplay status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show the running client's status via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	printStatus(os.Stdout, status)
	return 0
}

func printStatus(w io.Writer, s *ipc.StatusData) {
	fmt.Fprintf(w, "server:         %s\n", s.Server)
	fmt.Fprintf(w, "connected:      %v\n", s.Connected)
	if s.Session != "" {
		fmt.Fprintf(w, "session:        %s\n", s.Session)
	}
	fmt.Fprintf(w, "sessions:       %d\n", s.Sessions)
	fmt.Fprintf(w, "backend:        %s (scale %d)\n", s.Backend, s.Scale)
	fmt.Fprintf(w, "windows:        %d (%d buffers)\n", s.Windows, s.Buffers)
	if s.ActiveWindow != "" {
		fmt.Fprintf(w, "active_window:  %s\n", s.ActiveWindow)
	}
	fmt.Fprintf(w, "interaction:    %s\n", s.Interaction)
	fmt.Fprintf(w, "frames:         %d\n", s.Frames)
	fmt.Fprintf(w, "uptime_seconds: %d\n", s.UptimeSeconds)
}

func runWindows(args []string) int {
	fs := flag.NewFlagSet("windows", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Print JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: idealdisplay windows [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List the running client's windows, bottom of the stack first.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	data, err := ipc.NewClient().ListWindows()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(data); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}
	printWindows(os.Stdout, data.Windows)
	return 0
}

func printWindows(w io.Writer, windows []ipc.WindowInfo) {
	if len(windows) == 0 {
		fmt.Fprintln(w, "no windows")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Z\tID\tTYPE\tOWNER\tGEOMETRY\tTITLE\tFLAGS")
	for _, win := range windows {
		flags := ""
		if win.Focused {
			flags += "focused "
		}
		if !win.HasBuffer {
			flags += "no-buffer"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%dx%d+%d+%d\t%s\t%s\n",
			win.Z, win.ID, win.Type, win.Owner, win.Width, win.Height, win.X, win.Y, win.Title, flags)
	}
	tw.Flush()
}

func runReload(args []string) int {
	if len(args) > 0 {
		if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
			fmt.Fprintln(os.Stdout, "Usage: idealdisplay reload")
			return 0
		}
		fmt.Fprintln(os.Stderr, "reload takes no arguments")
		return 2
	}
	if err := ipc.NewClient().Reload(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println("config reloaded")
	return 0
}
