package library

import "errors"

// ErrAccess indicates the book file could not be read from disk, either
// because the path does not exist, is not a regular file, or the process
// lacks permission.
var ErrAccess = errors.New("book file is not accessible")
