package execute

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mosaicnetworks/hashgraph-sdk/src/backoff"
	"github.com/mosaicnetworks/hashgraph-sdk/src/net"
	"github.com/mosaicnetworks/hashgraph-sdk/src/network"
	"github.com/mosaicnetworks/hashgraph-sdk/src/status"
	"github.com/sirupsen/logrus"
)

// Executor runs Executables against a Network. It holds no per-call state
// and is safe for concurrent use; the health of nodes is shared through the
// Network.
type Executor struct {
	network   *network.Network
	transport net.Transport
	policy    backoff.Policy
	logger    *logrus.Entry

	now func() time.Time
}

// NewExecutor ...
func NewExecutor(
	nw *network.Network,
	trans net.Transport,
	policy backoff.Policy,
	logger *logrus.Entry,
) *Executor {

	if logger == nil {
		log := logrus.New()
		log.Level = logrus.DebugLevel
		logger = logrus.NewEntry(log)
	}

	return &Executor{
		network:   nw,
		transport: trans,
		policy:    policy,
		logger:    logger,
		now:       time.Now,
	}
}

// call is the state of one Execute.
type call struct {
	exec   Executable
	logger *logrus.Entry

	state    State
	node     *network.Node
	sticky   *network.Node
	attempts int

	resp    interface{}
	sendErr error

	lastStatus status.Status
	statusSeen bool
	lastErr    error
}

func (c *call) exhausted(reason ExhaustionReason) *ExhaustionError {
	return &ExhaustionError{
		Reason:     reason,
		Operation:  c.exec.Name(),
		Attempts:   c.attempts,
		LastStatus: c.lastStatus,
		StatusSeen: c.statusSeen,
		LastErr:    c.lastErr,
	}
}

func (c *call) contextDone(err error) *ExhaustionError {
	e := NewContextError(c.exec.Name(), c.attempts, err)
	e.LastStatus = c.lastStatus
	e.StatusSeen = c.statusSeen
	e.LastErr = c.lastErr
	return e
}

// Execute dispatches e until a node answers with a status of the Succeeded
// class, a terminal status is returned, or retries are exhausted. Terminal
// statuses are returned as *StatusError, exhaustion as *ExhaustionError.
func (x *Executor) Execute(ctx context.Context, e Executable) (*Result, error) {
	if err := x.policy.Validate(); err != nil {
		return nil, err
	}

	c := &call{
		exec: e,
		logger: x.logger.WithFields(logrus.Fields{
			"call":      uuid.New().String(),
			"operation": e.Name(),
		}),
		state: Selecting,
	}

	for {
		switch c.state {
		case Selecting:
			if err := x.selectNode(ctx, c); err != nil {
				c.state = Failed
				c.logger.WithError(err).Debug("Execute failed")
				return nil, err
			}
			c.state = Sending

		case Sending:
			req, err := e.MakeRequest(c.node)
			if err != nil {
				c.state = Failed
				return nil, err
			}
			c.attempts++
			c.logger.WithFields(logrus.Fields{
				"node":    c.node.AccountID,
				"attempt": c.attempts,
			}).Debug("Sending")
			c.resp, c.sendErr = x.send(ctx, e, c.node, req)
			c.state = Classifying

		case Classifying:
			res, err := x.classify(ctx, c)
			if err != nil {
				c.state = Failed
				c.logger.WithError(err).Debug("Execute failed")
				return nil, err
			}
			if res != nil {
				c.state = Succeeded
				return res, nil
			}
			c.state = Selecting
		}
	}
}

// selectNode picks the node for the next attempt, waiting for a node to be
// readmitted when none is eligible.
func (x *Executor) selectNode(ctx context.Context, c *call) error {
	if err := ctx.Err(); err != nil {
		return c.contextDone(err)
	}

	if c.attempts >= x.policy.MaxAttempts {
		return c.exhausted(MaxAttempts)
	}

	if c.sticky != nil {
		c.node, c.sticky = c.sticky, nil
		return nil
	}

	node, wait, err := x.network.Next(c.exec.NodeAccountIDs(), x.now())
	if err != nil {
		return err
	}

	if wait > 0 {
		if deadline, ok := ctx.Deadline(); ok && x.now().Add(wait).After(deadline) {
			return c.exhausted(NodesUnhealthy)
		}
		c.logger.WithFields(logrus.Fields{
			"node": node.AccountID,
			"wait": wait,
		}).Debug("No healthy node, waiting for readmission")
		if err := Sleep(ctx, wait); err != nil {
			return c.contextDone(err)
		}
	}

	c.node = node
	return nil
}

// send runs the exchange in its own goroutine so that an expired context
// returns immediately even if the transport does not watch it.
func (x *Executor) send(ctx context.Context, e Executable, node *network.Node, req interface{}) (interface{}, error) {
	type outcome struct {
		resp interface{}
		err  error
	}

	done := make(chan outcome, 1)
	go func() {
		resp, err := e.Send(ctx, x.transport, node, req)
		done <- outcome{resp, err}
	}()

	select {
	case o := <-done:
		return o.resp, o.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// classify returns a Result to end the call, an error to fail it, or neither
// to go back to Selecting.
func (x *Executor) classify(ctx context.Context, c *call) (*Result, error) {
	if c.sendErr != nil {
		if err := ctx.Err(); err != nil {
			return nil, c.contextDone(err)
		}
		c.lastErr = c.sendErr
		wait := x.network.MarkUnhealthy(c.node, x.now())
		c.logger.WithFields(logrus.Fields{
			"node":    c.node.AccountID,
			"error":   c.sendErr,
			"backoff": wait,
		}).Debug("Transport fault, trying another node")
		return nil, nil
	}

	class, st := c.exec.Classify(c.resp)
	c.lastStatus, c.statusSeen = st, true

	logger := c.logger.WithFields(logrus.Fields{
		"node":    c.node.AccountID,
		"attempt": c.attempts,
		"status":  st,
		"class":   class,
	})

	switch class {
	case status.Succeeded:
		x.network.MarkHealthy(c.node)
		logger.Debug("Succeeded")
		return &Result{
			Response: c.resp,
			Node:     c.node,
			Attempts: c.attempts,
			Status:   st,
		}, nil

	case status.RetrySameNode:
		c.sticky = c.node
		if c.attempts >= x.policy.MaxAttempts {
			return nil, nil
		}
		delay := x.policy.Delay(c.attempts)
		logger.WithField("delay", delay).Debug("Transient status, retrying same node")
		if err := Sleep(ctx, delay); err != nil {
			return nil, c.contextDone(err)
		}
		return nil, nil

	case status.RetryOtherNode:
		wait := x.network.MarkUnhealthy(c.node, x.now())
		logger.WithField("backoff", wait).Debug("Node cannot serve request, trying another node")
		return nil, nil

	default:
		logger.Debug("Terminal status")
		return nil, &StatusError{
			Status:        st,
			Operation:     c.exec.Name(),
			NodeAccountID: c.node.AccountID,
		}
	}
}

// Sleep waits for d or until ctx is done, and returns the context error in the
// latter case.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
