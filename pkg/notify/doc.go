// Package notify provides a minimal synchronous subscription list used by
// the entitlement and trial services to tell observers about successful
// mutations before the mutating call returns.
//
//	n := notify.New[string]()
//	stop := n.Subscribe(func(event string) { log.Println(event) })
//	defer stop()
//	n.Notify("refreshed")
package notify
