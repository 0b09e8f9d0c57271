package lib

import (
	"io"
	"sync"
)

// BufferedSource wraps a FrameSource with a bounded read-ahead buffer so
// decoding keeps pace while the caller is busy filtering a chunk. Frames
// come out in decode order; only the prefetch runs on its own goroutine.
type BufferedSource struct {
	src    FrameSource
	mu     sync.Mutex
	cond   *sync.Cond
	buffer []Image
	limit  int
	done   bool
	err    error
}

// NewBufferedSource starts prefetching up to size frames from src.
func NewBufferedSource(src FrameSource, size int) *BufferedSource {
	if size < 1 {
		size = 1
	}
	bs := &BufferedSource{src: src, limit: size}
	bs.cond = sync.NewCond(&bs.mu)

	go func() {
		for {
			bs.mu.Lock()
			for len(bs.buffer) >= bs.limit && !bs.done {
				bs.cond.Wait()
			}
			if bs.done {
				bs.mu.Unlock()
				return
			}
			bs.mu.Unlock()

			im, err := src.Read()

			bs.mu.Lock()
			if err != nil {
				if err != io.EOF {
					bs.err = err
				}
				bs.done = true
				bs.cond.Broadcast()
				bs.mu.Unlock()
				return
			}
			bs.buffer = append(bs.buffer, im)
			bs.cond.Broadcast()
			bs.mu.Unlock()
		}
	}()

	return bs
}

func (bs *BufferedSource) Meta() VideoMeta { return bs.src.Meta() }

// Read returns the next buffered frame, blocking until one is available or
// the underlying stream ends. Buffered frames drain before EOF is reported.
func (bs *BufferedSource) Read() (Image, error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	for len(bs.buffer) == 0 && !bs.done {
		bs.cond.Wait()
	}

	if len(bs.buffer) > 0 {
		im := bs.buffer[0]
		n := copy(bs.buffer[0:], bs.buffer[1:])
		bs.buffer = bs.buffer[0:n]
		bs.cond.Broadcast()
		return im, nil
	}
	if bs.err != nil {
		return Image{}, bs.err
	}
	return Image{}, io.EOF
}

// Close stops the prefetcher and closes the underlying source. Closing the
// source unblocks any in-flight Read inside the prefetch goroutine.
func (bs *BufferedSource) Close() error {
	bs.mu.Lock()
	bs.done = true
	bs.cond.Broadcast()
	bs.mu.Unlock()
	return bs.src.Close()
}
