package util

import "sync"

// InputChunkSize bounds a single read from the input stream.  Reads
// larger than one chunk are simply split across readiness callbacks.
const InputChunkSize = 512

// chunkPool provides reusable read buffers for the ingestion hot path,
// reducing GC pressure when the input stream is busy.
var chunkPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, InputChunkSize)
		return &buf
	},
}

// GetChunk retrieves a chunk buffer from the pool.  Callers must return
// it with [PutChunk] when finished.
func GetChunk() *[]byte {
	return chunkPool.Get().(*[]byte)
}

// PutChunk returns a chunk buffer to the pool for reuse.
func PutChunk(buf *[]byte) {
	if buf == nil {
		return
	}
	chunkPool.Put(buf)
}
