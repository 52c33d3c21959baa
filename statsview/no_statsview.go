//go:build !statsview
// +build !statsview

package statsview

import "io"

// DefaultAddress is used when Launch is given an empty address.
const DefaultAddress = "localhost:12650"

// Launch is a no-op without the statsview tag.
func Launch(output io.Writer, addr string) {}

// Available is false without the statsview tag.
func Available() bool {
	return false
}
