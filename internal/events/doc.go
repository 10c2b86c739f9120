// Package events carries in-process notifications about game progress.
//
// The game service emits a GameEvent when something notable happens, such
// as a round being completed, without knowing who listens. Handlers
// subscribe through an EventEmitter; SyncEmitter is the only
// implementation and dispatches on the caller's goroutine. The next-round
// prefetcher is the primary subscriber.
package events
