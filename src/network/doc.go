// Package network keeps the roster of ledger nodes a client talks to, and the
// health of each of them.
//
// A Node is a ledger account paired with the address where it accepts
// requests. Every node carries a count of consecutive failures and the time
// before which it should not be used again. A failure pushes that time back
// by a backoff that doubles with every consecutive failure, between the
// roster's minimum and maximum node backoff. A success clears both.
//
// Exclusion is never permanent. An unhealthy node stays in the roster and is
// picked again once its readmission time has passed, or earlier when no
// healthy candidate is left, in which case Next hands it back together with
// how long the caller should wait before using it.
//
// The address book is read from a JSON file, or a YAML file when the name
// ends in .yaml or .yml:
//
//  [
//    {"account": "0.0.3", "address": "127.0.0.1:50211"},
//    {"account": "0.0.4", "address": "127.0.0.1:50212"}
//  ]
//
// A Network is owned by the client that built it. Nodes are shared by every
// concurrent request of that client; their counters are updated atomically.
package network
