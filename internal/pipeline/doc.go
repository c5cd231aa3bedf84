// Package pipeline drives station processing for one session.
//
// A Session fetches the batch from the directory service and walks it in
// order from a single control flow; concurrency exists only at the leaf,
// one detached worker per guarded call. Each item runs inside a station
// budget; the logo fetch inside each item runs inside a strictly smaller
// logo budget. Timed-out or failed items are attributed to the watchdog
// and skipped, never retried, and never abort the batch. Records keep the
// fetch order of their source items.
package pipeline
