// Package state provides Publisher, a single-writer, multi-reader slot that
// broadcasts every written value to its subscribers.
//
// Each write gets a version number. Subscribers receive the value current at
// subscription time followed by every later write, in order and without
// conflation. A slow subscriber only grows its own queue and never blocks
// the writer or other subscribers.
//
//	pub := state.NewPublisher("loading")
//	sub := pub.Subscribe()
//	defer sub.Close()
//
//	go pub.Publish("ready")
//
//	for snap := range sub.C() {
//	    fmt.Println(snap.Version, snap.Value)
//	}
package state
