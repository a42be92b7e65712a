// Package txflow drives one mint or verify attempt from the client side:
// fetch a prepared transaction, have the wallet sign and send it, wait for
// confirmation and, for mints, derive the new asset id from the leaf event.
//
// An Orchestrator exposes every state change through Subscribe. Failed
// attempts fall back to idle after a cooldown unless the user retries first.
package txflow
