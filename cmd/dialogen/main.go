// Package main implements the dialogen command line tool, which generates
// synthetic dialogue datasets through the Gemini API with a rotating
// credential pool and post-processes them into a training-ready format.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
