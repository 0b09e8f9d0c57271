package lib

import "errors"

// Error kinds surfaced by a pipeline run. Fatal ones abort the run after
// releasing the source and sink; ErrChunkTooShort is recoverable and the
// offending chunk is skipped.
var (
	ErrInvalidFilterBand = errors.New("invalid filter band")
	ErrSourceOpen        = errors.New("source open failure")
	ErrSinkOpen          = errors.New("sink open failure")
	ErrFrameDecode       = errors.New("frame decode failure")
	ErrChunkTooShort     = errors.New("chunk too short to filter")
)
