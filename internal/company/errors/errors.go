package errors

import (
	"fmt"
)

var (
	ErrNotFound       = fmt.Errorf("not found")
	ErrInvalidInput   = fmt.Errorf("invalid input")
	ErrNoUpdateFields = fmt.Errorf("no valid fields provided for update")
)
