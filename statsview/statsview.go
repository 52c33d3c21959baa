//go:build statsview
// +build statsview

// Package statsview serves runtime statistics (goroutines, heap, GC pauses) of
// the running machine over HTTP. It is only available when built with the
// statsview tag.
package statsview

import (
	"fmt"
	"io"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// DefaultAddress is used when Launch is given an empty address.
const DefaultAddress = "localhost:12650"

// Launch starts the statistics server on addr and reports its URL to output.
// The server runs until the process exits.
func Launch(output io.Writer, addr string) {
	if addr == "" {
		addr = DefaultAddress
	}
	viewer.SetConfiguration(viewer.WithAddr(addr))
	go statsview.New().Start()

	fmt.Fprintf(output, "m6502 statistics at http://%s/debug/statsview\n", addr)
}

// Available is true in builds with the statsview tag.
func Available() bool {
	return true
}
