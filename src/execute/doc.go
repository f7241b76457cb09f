// Package execute implements the retry and dispatch state machine shared by
// every transaction and query.
//
// One call to Executor.Execute moves through the states
//
//	Selecting -> Sending -> Classifying -> {Selecting, Succeeded, Failed}
//
// Selecting asks the Network for the next eligible node, Sending hands the
// request built for that node to the Transport, and Classifying looks the
// answer up in the fixed table of the status package. Transient statuses are
// retried on the same node after a backoff, transport faults and node-specific
// rejections move on to another node, and every other status is returned to
// the caller as is.
//
// The loop honours the deadline of its context at every suspension point: an
// in-flight request, a backoff sleep, or a wait for a node to be readmitted.
package execute
