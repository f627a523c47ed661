// Package devtools serves a read-only inspector for a store.
//
// Routes:
//
//	GET /healthz         liveness
//	GET /snapshot        every record as JSON
//	GET /snapshot/{key}  one record, or 404 with an R023 error
//	GET /ws              websocket stream of snapshots
//	GET /metrics         Prometheus metrics, when a gatherer is configured
//
// The websocket sends {"type":"snapshot","records":{...}} on connect and
// again after store notifications. Notifications arriving while a send is
// pending are coalesced, so clients see the latest state rather than every
// intermediate one. Silent writes are only visible in the next snapshot.
package devtools
