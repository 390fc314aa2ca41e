package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	cli "github.com/spf13/pflag"

	"matrix/internal/ipc"
)

const usage = `usage: matrix-ctl [flags] <command> [arg]

commands:
  trigger [text]   wake the assistant, optionally with a command
  say <text>       speak text aloud
  file <path>      transcribe an audio file and run it as a command
  stats            show dispatch statistics
  sleep            send an active session back to standby
  stop             shut the daemon down
`

func main() {
	socket := cli.StringP("socket", "s", ipc.DefaultSocketPath, "Control socket path")
	cli.Parse()

	args := cli.Args()
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	req := ipc.Request{Cmd: args[0], Arg: strings.Join(args[1:], " ")}

	reply, err := ipc.Send(*socket, req)
	if err != nil {
		fmt.Fprintln(os.Stderr, "matrix-daemon not running:", err)
		os.Exit(1)
	}

	if !reply.OK {
		fmt.Fprintln(os.Stderr, "error:", reply.Message)
		os.Exit(1)
	}

	if reply.Stats != nil {
		printStats(reply)
		return
	}
	if reply.Message != "" {
		fmt.Println(reply.Message)
	}
}

func printStats(reply ipc.Reply) {
	st := reply.Stats
	fmt.Printf("processed:  %d\n", st.TotalProcessed)
	fmt.Printf("successful: %d\n", st.Successful)
	fmt.Printf("failed:     %d\n", st.Failed)
	fmt.Printf("success:    %.0f%%\n", st.SuccessRate()*100)

	if len(st.ByCategory) == 0 {
		return
	}

	cats := make([]string, 0, len(st.ByCategory))
	for c := range st.ByCategory {
		cats = append(cats, c)
	}
	sort.Strings(cats)

	fmt.Println("by category:")
	for _, c := range cats {
		fmt.Printf("  %-14s %d\n", c, st.ByCategory[c])
	}
}
