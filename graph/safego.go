package graph

import "sync"

type waitGroup = sync.WaitGroup

// SafeGo runs fn in a goroutine tracked by wg, converting a panic into a
// call to onPanic instead of crashing the process.
func SafeGo(wg *sync.WaitGroup, fn func(), onPanic func(panicVal any)) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				onPanic(r)
			}
		}()
		fn()
	}()
}
