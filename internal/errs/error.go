package errs

import (
	"errors"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrReference = errors.New("referenced entity does not exist")
)
