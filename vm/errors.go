package vm

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrBootImageTooLarge is the cause of a BootImageError when the image does
// not fit in ROM.
var ErrBootImageTooLarge = errors.New("boot image larger than ROM")

// BootImageError is returned when the boot image can't be loaded into ROM. The
// machine must not be started after this error.
type BootImageError struct {
	Path string
	Err  error
}

func (e *BootImageError) Error() string {
	return fmt.Sprintf("error loading bios file: %s: %v", e.Path, e.Err)
}

func (e *BootImageError) Unwrap() error {
	return e.Err
}
