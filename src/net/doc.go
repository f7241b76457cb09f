// Package net implements the transports that carry requests between the SDK
// and ledger nodes.
//
// A Transport sends two kinds of RPC: the submission of a signed transaction
// (SubmitTransaction) and a query (Query). Every call takes a context; a
// transport returns promptly when the context is done, whatever state the
// remote node is in.
//
// There are two implementations:
//
// - Inmem: in-memory transport used for testing and for local simulated
// networks.
//
// - TCP: a NetworkTransport over plain TCP, with a pool of connections per
// node.
//
// Both implementations also have a server side (the Server interface): they
// accept RPCs and hand them over on the channel returned by Consumer, where
// they are answered with RPC.Respond. The localnet package uses it to simulate
// ledger nodes.
//
// Framing
//
// Each RPC request is framed by sending a byte that indicates the message type,
// followed by the msgpack encoded request. The response is an error string
// followed by the response object. Both use the codec of the hapi package.
package net
