package loader

import "errors"

// Sentinel kinds for data file errors.
var (
	ErrLoadData  = errors.New("load data failed")
	ErrWriteData = errors.New("write data failed")
)
