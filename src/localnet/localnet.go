package localnet

import (
	"fmt"
	"time"

	"github.com/mosaicnetworks/hashgraph-sdk/src/hapi"
	"github.com/mosaicnetworks/hashgraph-sdk/src/net"
	"github.com/mosaicnetworks/hashgraph-sdk/src/network"
	"github.com/sirupsen/logrus"
)

// FirstNodeAccount is the account of the first node. The following nodes
// take the next account numbers.
var FirstNodeAccount = hapi.AccountID{Num: 3}

// Localnet is a set of nodes sharing one Ledger.
type Localnet struct {
	Ledger *Ledger
	Nodes  []*Node
}

// NewInmem starts n nodes on in-memory transports and returns, with them, a
// client transport connected to all of them.
func NewInmem(n int, ledger *Ledger, logger *logrus.Entry) (*Localnet, *net.InmemTransport, error) {
	_, client := net.NewInmemTransport("")

	ln := &Localnet{Ledger: ledger}
	for i := 0; i < n; i++ {
		addr, trans := net.NewInmemTransport("")
		client.Connect(addr, trans)
		if err := ln.add(nodeAccount(i), trans, logger); err != nil {
			ln.Close()
			return nil, nil, err
		}
	}

	return ln, client, nil
}

// NewTCP starts one node listening on each address.
func NewTCP(addrs []string, ledger *Ledger, timeout time.Duration, logger *logrus.Entry) (*Localnet, error) {
	ln := &Localnet{Ledger: ledger}
	for i, addr := range addrs {
		trans, err := net.NewTCPTransport(addr, 1, timeout, logger.WithField("transport", addr))
		if err != nil {
			ln.Close()
			return nil, fmt.Errorf("listening on %s: %w", addr, err)
		}
		if err := ln.add(nodeAccount(i), trans, logger); err != nil {
			trans.Close()
			ln.Close()
			return nil, err
		}
	}
	return ln, nil
}

func nodeAccount(i int) hapi.AccountID {
	id := FirstNodeAccount
	id.Num += int64(i)
	return id
}

// add registers the account of a node on the ledger and starts it.
func (l *Localnet) add(id hapi.AccountID, trans net.Server, logger *logrus.Entry) error {
	if err := l.Ledger.CreateAccount(id, nil, 0); err != nil {
		return err
	}
	node := NewNode(id, l.Ledger, trans, logger)
	node.Run()
	l.Nodes = append(l.Nodes, node)
	return nil
}

// Node returns the node of an account.
func (l *Localnet) Node(id hapi.AccountID) (*Node, bool) {
	for _, n := range l.Nodes {
		if n.accountID == id {
			return n, true
		}
	}
	return nil, false
}

// NetworkNodes returns the roster entries a client needs to reach the nodes.
func (l *Localnet) NetworkNodes() []*network.Node {
	nodes := make([]*network.Node, len(l.Nodes))
	for i, n := range l.Nodes {
		nodes[i] = network.NewNode(n.accountID, n.Address())
	}
	return nodes
}

// Close shuts every node down.
func (l *Localnet) Close() {
	for _, n := range l.Nodes {
		n.Shutdown()
	}
}
