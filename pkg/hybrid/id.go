package hybrid

import "sync/atomic"

// hostIDCounter is the source of host IDs. IDs are never reused.
var hostIDCounter uint64

func nextHostID() uint64 {
	return atomic.AddUint64(&hostIDCounter, 1)
}
