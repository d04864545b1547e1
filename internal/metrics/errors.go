package metrics

import "errors"

// ErrWriteTextfile is returned when the metrics textfile cannot be written.
var ErrWriteTextfile = errors.New("failed to write metrics textfile")
