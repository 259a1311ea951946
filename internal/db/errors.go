package db

import "errors"

var (
	// ErrIndexNotFound is returned when FT.* targets a missing index.
	ErrIndexNotFound = errors.New("db: index not found")
	// ErrIndexExists is returned by FT.CREATE for an index name already in use.
	ErrIndexExists = errors.New("db: index already exists")
)

// Command names recorded on Error.
const (
	OpCreateIndex = "FT.CREATE"
	OpDropIndex   = "FT.DROPINDEX"
	OpIndexInfo   = "FT.INFO"
	OpSearch      = "FT.SEARCH"
	OpDel         = "DEL"
	OpHGetAll     = "HGETALL"
	OpHSet        = "HSET"
	OpExists      = "EXISTS"
	OpScan        = "SCAN"
)

// Error records the command that failed.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return "db " + e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
