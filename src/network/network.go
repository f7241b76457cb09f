package network

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/mosaicnetworks/hashgraph-sdk/src/hapi"
	"github.com/sirupsen/logrus"
)

// ErrEmptyNetwork is returned when a Network is built without nodes.
var ErrEmptyNetwork = errors.New("network has no nodes")

// Network is the roster of nodes known to a client.
type Network struct {
	nodes     []*Node
	byAccount map[hapi.AccountID]*Node

	minBackoff time.Duration
	maxBackoff time.Duration

	// cursor rotates the starting point of every selection so that load is
	// spread over healthy nodes.
	cursor atomic.Uint64

	logger *logrus.Entry
}

// NewNetwork builds a roster. Account IDs must be unique.
func NewNetwork(nodes []*Node, minBackoff, maxBackoff time.Duration, logger *logrus.Entry) (*Network, error) {
	if len(nodes) == 0 {
		return nil, ErrEmptyNetwork
	}

	if logger == nil {
		log := logrus.New()
		log.Level = logrus.DebugLevel
		logger = logrus.NewEntry(log)
	}

	n := &Network{
		nodes:      make([]*Node, 0, len(nodes)),
		byAccount:  make(map[hapi.AccountID]*Node, len(nodes)),
		minBackoff: minBackoff,
		maxBackoff: maxBackoff,
		logger:     logger,
	}

	for _, node := range nodes {
		if _, ok := n.byAccount[node.AccountID]; ok {
			return nil, fmt.Errorf("duplicate node account %s", node.AccountID)
		}
		n.byAccount[node.AccountID] = node
		n.nodes = append(n.nodes, node)
	}

	return n, nil
}

// Nodes returns every node in address book order.
func (n *Network) Nodes() []*Node {
	out := make([]*Node, len(n.nodes))
	copy(out, n.nodes)
	return out
}

// Len returns the number of nodes.
func (n *Network) Len() int {
	return len(n.nodes)
}

// Node looks a node up by account.
func (n *Network) Node(id hapi.AccountID) (*Node, bool) {
	node, ok := n.byAccount[id]
	return node, ok
}

// AccountIDs returns the account of every node in address book order.
func (n *Network) AccountIDs() []hapi.AccountID {
	out := make([]hapi.AccountID, len(n.nodes))
	for i, node := range n.nodes {
		out[i] = node.AccountID
	}
	return out
}

// Sample picks up to count nodes, healthy ones first, for an operation that
// must be prepared for a fixed set of nodes. count <= 0 means all of them.
func (n *Network) Sample(count int, now time.Time) []hapi.AccountID {
	if count <= 0 || count > len(n.nodes) {
		count = len(n.nodes)
	}

	start := int(n.cursor.Add(1) % uint64(len(n.nodes)))

	healthy := make([]hapi.AccountID, 0, count)
	var unhealthy []hapi.AccountID
	for i := 0; i < len(n.nodes); i++ {
		node := n.nodes[(start+i)%len(n.nodes)]
		if node.IsHealthy(now) {
			healthy = append(healthy, node.AccountID)
		} else {
			unhealthy = append(unhealthy, node.AccountID)
		}
	}

	out := append(healthy, unhealthy...)
	return out[:count]
}

// Next picks the node for the next attempt among candidates, or among every
// node when candidates is empty. It prefers healthy nodes, rotating between
// them. When none is healthy it returns the node that will be readmitted
// first, with the time left until then.
func (n *Network) Next(candidates []hapi.AccountID, now time.Time) (*Node, time.Duration, error) {
	pool := n.nodes
	if len(candidates) > 0 {
		pool = make([]*Node, 0, len(candidates))
		for _, id := range candidates {
			node, ok := n.byAccount[id]
			if !ok {
				return nil, 0, fmt.Errorf("node %s is not in the network", id)
			}
			pool = append(pool, node)
		}
	}

	start := int(n.cursor.Add(1) % uint64(len(pool)))

	var earliest *Node
	for i := 0; i < len(pool); i++ {
		node := pool[(start+i)%len(pool)]
		if node.IsHealthy(now) {
			return node, 0, nil
		}
		if earliest == nil || node.ReadmitAt().Before(earliest.ReadmitAt()) {
			earliest = node
		}
	}

	return earliest, earliest.ReadmitAt().Sub(now), nil
}

// MarkUnhealthy records a failure of node and returns how long it is now
// avoided.
func (n *Network) MarkUnhealthy(node *Node, now time.Time) time.Duration {
	wait := node.markFailed(now, n.minBackoff, n.maxBackoff)
	n.logger.WithFields(logrus.Fields{
		"node":     node.AccountID,
		"failures": node.Failures(),
		"backoff":  wait,
	}).Debug("Node marked unhealthy")
	return wait
}

// MarkHealthy records a success of node.
func (n *Network) MarkHealthy(node *Node) {
	if node.Failures() > 0 {
		n.logger.WithField("node", node.AccountID).Debug("Node healthy again")
	}
	node.markHealthy()
}
