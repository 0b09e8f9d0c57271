package lib

import (
	"fmt"
	"io"
)

// ReadChunk pulls up to n frames from the source. Fewer than n are
// returned at end of stream; an empty result means the stream is
// exhausted. A decode failure aborts the whole run, there is no per-frame
// retry.
func ReadChunk(src FrameSource, n int) ([]Image, error) {
	frames := make([]Image, 0, n)
	for len(frames) < n {
		im, err := src.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFrameDecode, err)
		}
		frames = append(frames, im)
	}
	return frames, nil
}
