// Package buffer provides a bounded, goroutine-safe FIFO used to hand stream
// events from a provider pull loop to a single consumer.
//
// A BlockBuffer blocks producers while it is full and consumers while it is
// empty. Producers finish with CloseWrite, which lets the consumer drain what
// is left before Next reports ErrIteratorDone. CloseWithError tears both ends
// down at once; pending and later calls fail with the given error.
//
//	bb := buffer.BlockN[string](16)
//	go func() {
//	    defer bb.CloseWrite()
//	    bb.Add("hello")
//	}()
//	for {
//	    v, err := bb.Next()
//	    if err != nil {
//	        break // ErrIteratorDone once drained
//	    }
//	    fmt.Println(v)
//	}
package buffer
