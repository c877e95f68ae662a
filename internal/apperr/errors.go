package apperr

import "errors"

var (
	ErrNothingToUndo = errors.New("nothing to undo")
)
