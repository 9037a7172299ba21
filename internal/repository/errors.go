package repository

import "errors"

// ErrNotFound is returned by any repository lookup that matches no row.
// Services translate it into their own typed not-found errors.
var ErrNotFound = errors.New("record not found")
