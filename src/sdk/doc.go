// Package sdk is the client facing API: transactions, queries and the
// polling of their outcome.
//
// A transaction goes through three states. While Building, its fields can be
// changed. Freezing fixes its identity, the nodes it may be sent to, and the
// serialized body of every (chunk, node) pair; from then on only signatures
// can be added. Executing it dispatches the chunks one after the other, each
// through the retry state machine of the execute package, and leaves it
// Dispatched for good.
//
//	tx := sdk.NewTransferTransaction()
//	tx.AddTransfer(from, -10)
//	tx.AddTransfer(to, 10)
//	resp, err := tx.Execute(ctx, client)
//	...
//	receipt, err := resp.GetReceipt(ctx, client)
//
// Queries are configured and executed in one go. Queries that are not free
// carry a signed transfer to the node that answers them, built per node and
// per attempt.
package sdk
