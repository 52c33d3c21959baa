// Package test contains helper functions for the machine's tests.
package test

import (
	"fmt"
	"testing"
)

func id(tags ...any) string {
	if len(tags) == 0 {
		return ""
	}
	return fmt.Sprintf("%v: ", tags)
}

// success is true for a nil error, a true bool and a nil value.
func success(v any) bool {
	switch v := v.(type) {
	case nil:
		return true
	case bool:
		return v
	case error:
		return v == nil
	}
	return true
}

// ExpectEquality tests equality of v and expected. A failure is reported but
// the test continues.
func ExpectEquality[T comparable](t *testing.T, v T, expected T, tags ...any) bool {
	t.Helper()
	if v != expected {
		t.Errorf("%sequality test of type %T failed: '%v' does not equal '%v'", id(tags...), v, v, expected)
		return false
	}
	return true
}

// DemandEquality is like ExpectEquality but a failure ends the test. Useful
// when later checks depend on the value, eg. a slice length.
func DemandEquality[T comparable](t *testing.T, v T, expected T, tags ...any) {
	t.Helper()
	if v != expected {
		t.Fatalf("%sequality test of type %T failed: '%v' does not equal '%v'", id(tags...), v, v, expected)
	}
}

// ExpectSuccess tests for a nil error or a true bool.
func ExpectSuccess(t *testing.T, v any, tags ...any) bool {
	t.Helper()
	if !success(v) {
		t.Errorf("%ssuccess value expected for type %T (%v)", id(tags...), v, v)
		return false
	}
	return true
}

// ExpectFailure tests for a non-nil error or a false bool.
func ExpectFailure(t *testing.T, v any, tags ...any) bool {
	t.Helper()
	if success(v) {
		t.Errorf("%sfailure value expected for type %T", id(tags...), v)
		return false
	}
	return true
}

// DemandFailure is like ExpectFailure but a success ends the test.
func DemandFailure(t *testing.T, v any, tags ...any) {
	t.Helper()
	if success(v) {
		t.Fatalf("%sa failure value is demanded for type %T", id(tags...), v)
	}
}

// DemandSuccess is like ExpectSuccess but a failure ends the test.
func DemandSuccess(t *testing.T, v any, tags ...any) {
	t.Helper()
	if !success(v) {
		t.Fatalf("%sa success value is demanded for type %T (%v)", id(tags...), v, v)
	}
}
