package ifo

import (
	"errors"
	"fmt"
)

var (
	ErrSignature    = errors.New("missing DVDVIDEO-VTS signature")
	ErrTooSmall     = errors.New("file too small for VTS information header")
	ErrMissingTable = errors.New("table pointer is zero")
	ErrOutOfBounds  = errors.New("table extends past end of file")
	ErrInvalidRange = errors.New("sector range ends before it starts")
	ErrShortField   = errors.New("field shorter than expected")
)

// TableError names the structure a parse failed in.
type TableError struct {
	Table  string
	Offset int64
	Err    error
}

func (e *TableError) Error() string {
	return fmt.Sprintf("%s at 0x%X: %v", e.Table, e.Offset, e.Err)
}

func (e *TableError) Unwrap() error {
	return e.Err
}

func tableErr(table string, offset int64, err error) error {
	return &TableError{Table: table, Offset: offset, Err: err}
}
