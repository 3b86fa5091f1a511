package objects

import "errors"

var (
	// ErrInvalidDatabase indicates a database file with a wrong header or an
	// unparsable record line.
	ErrInvalidDatabase = errors.New("objects: invalid database format")
	// ErrNoRecognition indicates that no object matched the known database.
	ErrNoRecognition = errors.New("objects: no object recognized")
)
