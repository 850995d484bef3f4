// Package server provides a development backend that speaks the lightness queue API.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
// [RequestLogger] logs every request with its X-Request-ID.
//
// # Queue Backend
//
// [QueueStore] is an in-memory queue with the same state machine as the real backend:
// entries are queued, one plays at a time, and played, skipped or removed entries leave the visible queue.
// [QueueHandler] exposes it over HTTP with the endpoints consumed by services.APIService.
//
// `lightness serve` runs both so the TUI can be exercised without the LED matrix player.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
