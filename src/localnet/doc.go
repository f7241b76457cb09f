// Package localnet simulates a small ledger network for tests and local
// experiments.
//
// A Ledger holds accounts, files and topics shared by all the nodes. Each Node
// serves a net.Server, prechecks the transactions it receives the way a real
// node would, and queues accepted ones for consensus. Consensus is a fixed
// delay: a transaction is applied once its delay has passed, in the order in
// which the nodes accepted it. Receipt lookups made before that report the
// UNKNOWN status.
//
// Nodes can be made to answer BUSY or to fail outright, to exercise the retry
// logic of clients.
package localnet
