package logger_test

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/aryanA101a/m6502-vm-go/logger"
	"github.com/aryanA101a/m6502-vm-go/test"
)

func TestLogger(t *testing.T) {
	l := logger.New(0)
	w := &strings.Builder{}

	l.Write(w)
	test.ExpectEquality(t, w.String(), "")

	l.Log("test", "this is a test")
	l.Write(w)
	test.ExpectEquality(t, w.String(), "test: this is a test\n")

	w.Reset()
	l.Log("test", "this is a test")
	l.Write(w)
	test.ExpectEquality(t, w.String(), "test: this is a test (repeat x2)\n")
	test.ExpectEquality(t, l.Len(), 1)

	w.Reset()
	l.Logf("io", "reading IO address 0x%02x", 5)
	l.Tail(w, 1)
	test.ExpectEquality(t, w.String(), "io: reading IO address 0x05\n")

	l.Clear()
	test.ExpectEquality(t, l.Len(), 0)
}

func TestLoggerBounded(t *testing.T) {
	l := logger.New(3)
	for _, s := range []string{"a", "b", "c", "d", "e"} {
		l.Log("tag", s)
	}
	e := l.Entries()
	test.DemandEquality(t, len(e), 3)
	test.ExpectEquality(t, e[0].Detail, "c")
	test.ExpectEquality(t, e[2].Detail, "e")
}

func TestLoggerEcho(t *testing.T) {
	var b bytes.Buffer
	l := logger.New(0)
	l.SetEcho(log.New(&b, "", 0))
	l.Log("vm", "new\nline")
	test.ExpectEquality(t, b.String(), "vm: newline\n")

	l.SetEcho(nil)
	l.Log("vm", "quiet")
	test.ExpectEquality(t, b.String(), "vm: newline\n")
}
