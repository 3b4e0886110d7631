package node

import (
	"bufio"
	"io"
)

// ReadLines starts a goroutine that scans r line by line and sends each
// line on the returned channel, closing it when r is exhausted or erroring.
// Run selects on this channel alongside adapter events, the idiomatic Go
// expression of the operator-input-or-completion-event multiplex.
func ReadLines(r io.Reader) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			out <- scanner.Text()
		}
	}()
	return out
}
