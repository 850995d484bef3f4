// Package services defines the [Client] interface for the lightness backend and implements it over HTTP.
//
// # Client Interface
//
// The playlist reconciler only depends on [Client], so tests substitute an in-memory double and the CLI wires
// [APIService].
//
// # HTTP Implementation
//
// [APIService] talks JSON to the backend:
//
//	GET  /api/queue         → {"success": bool, "queue": [...]}
//	POST /api/queue/next    ← {"playlist_video_id": N}
//	POST /api/queue/clear
//	POST /api/queue/remove  ← {"playlist_video_id": N}
//
// Every request carries an X-Request-ID header. Mutating commands pass through a token bucket
// ([golang.org/x/time/rate]) so a held key cannot flood the backend; queue polling is never throttled.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrAPIRequest] : non-2xx status, undecodable payload or success=false on a command
//   - [shared.ErrRateLimited] : the command limiter could not grant a token before the context ended
//
// GetQueue reports success=false as data rather than an error; the reconciler treats both the same way.
package services
