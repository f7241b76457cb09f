package sdk

import (
	"context"
	"fmt"
	"time"

	"github.com/mosaicnetworks/hashgraph-sdk/src/config"
	"github.com/mosaicnetworks/hashgraph-sdk/src/crypto/keys"
	"github.com/mosaicnetworks/hashgraph-sdk/src/execute"
	"github.com/mosaicnetworks/hashgraph-sdk/src/hapi"
	"github.com/mosaicnetworks/hashgraph-sdk/src/journal"
	"github.com/mosaicnetworks/hashgraph-sdk/src/net"
	"github.com/mosaicnetworks/hashgraph-sdk/src/network"
	"github.com/sirupsen/logrus"
)

// Client is a connection to a ledger network. It owns the node roster, so two
// clients never share node health. A Client is safe for concurrent use;
// transactions and queries are not.
type Client struct {
	conf      *config.Config
	network   *network.Network
	transport net.Transport
	executor  *execute.Executor
	poller    *ReceiptPoller
	journal   journal.Store
	operator  *Operator
	ids       *idGenerator

	logger *logrus.Entry
}

// NewClient assembles a client from its parts. The journal is in memory until
// SetJournal is called.
func NewClient(conf *config.Config, nw *network.Network, trans net.Transport) (*Client, error) {
	if err := conf.BackoffPolicy().Validate(); err != nil {
		return nil, err
	}

	logger := conf.Logger()

	c := &Client{
		conf:      conf,
		network:   nw,
		transport: trans,
		executor:  execute.NewExecutor(nw, trans, conf.BackoffPolicy(), logger.WithField("component", "executor")),
		journal:   journal.NewInmemStore(),
		ids:       newIDGenerator(),
		logger:    logger,
	}
	c.poller = NewReceiptPoller(c, conf.ReceiptPollInterval)

	return c, nil
}

// NewClientFromConfig reads the address book and, if configured, the operator
// key and the persistent journal, and connects over TCP.
func NewClientFromConfig(conf *config.Config) (*Client, error) {
	logger := conf.Logger()

	nodes, err := network.NewAddressBook(conf.NetworkPath()).Nodes()
	if err != nil {
		return nil, fmt.Errorf("loading address book: %w", err)
	}

	nw, err := network.NewNetwork(nodes, conf.MinNodeBackoff, conf.MaxNodeBackoff, logger.WithField("component", "network"))
	if err != nil {
		return nil, err
	}

	trans := net.NewTCPClientTransport(conf.MaxPool, conf.TCPTimeout, logger.WithField("component", "transport"))

	c, err := NewClient(conf, nw, trans)
	if err != nil {
		trans.Close()
		return nil, err
	}

	if conf.Store {
		store, err := journal.NewBadgerStore(conf.DatabaseDir, logger)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("opening journal: %w", err)
		}
		c.SetJournal(store)
	}

	if conf.OperatorID != "" {
		id, err := hapi.AccountIDFromString(conf.OperatorID)
		if err != nil {
			c.Close()
			return nil, err
		}
		key, err := keys.NewSimpleKeyfile(conf.Keyfile()).ReadKey()
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("reading operator key: %w", err)
		}
		c.SetOperator(id, key)
	}

	logger.WithFields(logrus.Fields{
		"nodes":    nw.Len(),
		"operator": c.operator,
		"store":    conf.Store,
	}).Debug("Client ready")

	return c, nil
}

// SetOperator sets the account that pays for transactions and queries.
func (c *Client) SetOperator(id hapi.AccountID, key keys.PrivateKey) {
	c.operator = &Operator{AccountID: id, PrivateKey: key}
}

// Operator returns the operator, or nil.
func (c *Client) Operator() *Operator {
	return c.operator
}

// SetJournal replaces the journal. The previous one is not closed.
func (c *Client) SetJournal(store journal.Store) {
	c.journal = store
}

// Journal returns the journal of submitted transactions.
func (c *Client) Journal() journal.Store {
	return c.journal
}

// Network returns the node roster.
func (c *Client) Network() *network.Network {
	return c.network
}

// Config returns the configuration of the client.
func (c *Client) Config() *config.Config {
	return c.conf
}

// Poller returns the receipt poller of the client.
func (c *Client) Poller() *ReceiptPoller {
	return c.poller
}

// NewTransactionID generates a transaction ID for payer. IDs generated by one
// client never repeat.
func (c *Client) NewTransactionID(payer hapi.AccountID) hapi.TransactionID {
	return c.ids.next(payer, 1)
}

// Close closes the transport and the journal.
func (c *Client) Close() error {
	err := c.transport.Close()
	if jerr := c.journal.Close(); err == nil {
		err = jerr
	}
	return err
}

// withTimeout bounds ctx by the request timeout unless it already has a
// deadline.
func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || c.conf.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.conf.RequestTimeout)
}

// sampleNodes picks the nodes of a transaction or paid query that did not
// choose its own.
func (c *Client) sampleNodes() []hapi.AccountID {
	return c.network.Sample(c.conf.MaxNodesPerTransaction, time.Now())
}
