package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shakerlab/diffords/internal/match"
)

// displayBlock is how many results are shown per page before asking again.
const displayBlock = 5

// terminalPrompter resolves ambiguous matches by asking the user on the
// terminal. Results are shown in pages of displayBlock; entering a number
// selects, 'm' shows more, and an empty line cancels.
type terminalPrompter struct {
	in  io.Reader
	out io.Writer
}

func (p *terminalPrompter) Select(query string, results []match.Result) (int, error) {
	fmt.Fprintf(p.out, "\nMultiple cocktails found for %q:\n", query)

	reader := bufio.NewReader(p.in)
	shown := 0
	for {
		if shown < len(results) {
			end := shown + displayBlock
			if end > len(results) {
				end = len(results)
			}
			fmt.Fprintf(p.out, "\nShowing results %d-%d of %d:\n", shown+1, end, len(results))
			for i := shown; i < end; i++ {
				fmt.Fprintf(p.out, "  %d. %s (%.0f%% match)\n", i+1, results[i].Candidate.Name, results[i].Score*100)
			}
			shown = end
		}

		if shown < len(results) {
			fmt.Fprint(p.out, "\nEnter number to select, 'm' for more, or Enter to cancel: ")
		} else {
			fmt.Fprint(p.out, "\nEnter number to select, or Enter to cancel: ")
		}
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			if err == io.EOF {
				return -1, nil
			}
			return -1, err
		}
		choice := strings.ToLower(strings.TrimSpace(line))
		switch {
		case choice == "":
			return -1, nil
		case choice == "m" && shown < len(results):
			continue
		default:
			idx, err := strconv.Atoi(choice)
			if err != nil || idx < 1 || idx > len(results) {
				fmt.Fprintln(p.out, "Invalid input. Enter a listed number or 'm' for more.")
				continue
			}
			return idx - 1, nil
		}
	}
}
