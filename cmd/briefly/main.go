// Command briefly summarizes text, web pages and documents from the command
// line and administers the summary history database.
//
//	briefly summarize text "..."        # or - to read stdin
//	briefly summarize url https://example.com/post
//	briefly summarize file report.pdf
//	briefly backends
//	briefly token alice --ttl 24h
//	briefly migrate up|down
//	briefly purge --older-than 720h
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
