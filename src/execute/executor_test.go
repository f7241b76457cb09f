package execute

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mosaicnetworks/hashgraph-sdk/src/backoff"
	"github.com/mosaicnetworks/hashgraph-sdk/src/common"
	"github.com/mosaicnetworks/hashgraph-sdk/src/hapi"
	"github.com/mosaicnetworks/hashgraph-sdk/src/net"
	"github.com/mosaicnetworks/hashgraph-sdk/src/network"
	"github.com/mosaicnetworks/hashgraph-sdk/src/status"
	"github.com/stretchr/testify/require"
)

// scripted is an Executable whose answers come from a function, and which
// records the node of every call.
type scripted struct {
	sync.Mutex
	nodes  []hapi.AccountID
	answer func(ctx context.Context, call int, node *network.Node) (interface{}, error)
	calls  []hapi.AccountID
	times  []time.Time
}

func (s *scripted) Name() string { return "scripted" }

func (s *scripted) NodeAccountIDs() []hapi.AccountID { return s.nodes }

func (s *scripted) MakeRequest(node *network.Node) (interface{}, error) {
	return node.AccountID, nil
}

func (s *scripted) Send(ctx context.Context, t net.Transport, node *network.Node, req interface{}) (interface{}, error) {
	s.Lock()
	s.calls = append(s.calls, req.(hapi.AccountID))
	s.times = append(s.times, time.Now())
	n := len(s.calls)
	s.Unlock()
	return s.answer(ctx, n, node)
}

func (s *scripted) Classify(resp interface{}) (status.Class, status.Status) {
	st := resp.(status.Status)
	return st.Class(), st
}

func (s *scripted) callCount() int {
	s.Lock()
	defer s.Unlock()
	return len(s.calls)
}

func always(st status.Status) func(context.Context, int, *network.Node) (interface{}, error) {
	return func(context.Context, int, *network.Node) (interface{}, error) {
		return st, nil
	}
}

func testNetwork(t *testing.T, n int, nodeBackoff time.Duration) *network.Network {
	nodes := make([]*network.Node, n)
	for i := range nodes {
		nodes[i] = network.NewNode(hapi.AccountID{Num: int64(3 + i)}, "")
	}
	nw, err := network.NewNetwork(nodes, nodeBackoff, 10*nodeBackoff, common.NewTestEntry(t, common.TestLogLevel))
	require.NoError(t, err)
	return nw
}

func testPolicy(maxAttempts int) backoff.Policy {
	return backoff.Policy{
		MaxAttempts: maxAttempts,
		Initial:     time.Millisecond,
		Max:         10 * time.Millisecond,
		Multiplier:  2,
	}
}

func testExecutor(t *testing.T, nw *network.Network, maxAttempts int) *Executor {
	return NewExecutor(nw, nil, testPolicy(maxAttempts), common.NewTestEntry(t, common.TestLogLevel))
}

func TestTerminalStatusIsNotRetried(t *testing.T) {
	x := testExecutor(t, testNetwork(t, 3, time.Second), 10)
	op := &scripted{answer: always(status.InvalidSignature)}

	_, err := x.Execute(context.Background(), op)

	var se *StatusError
	require.True(t, errors.As(err, &se), "expected StatusError, got %v", err)
	require.Equal(t, status.InvalidSignature, se.Status)
	require.Equal(t, 1, op.callCount())
}

func TestTransientStatusRespectsAttemptCeiling(t *testing.T) {
	x := testExecutor(t, testNetwork(t, 3, time.Second), 4)
	op := &scripted{answer: always(status.Busy)}

	_, err := x.Execute(context.Background(), op)

	var ee *ExhaustionError
	require.True(t, errors.As(err, &ee), "expected ExhaustionError, got %v", err)
	require.Equal(t, MaxAttempts, ee.Reason)
	require.True(t, ee.StatusSeen)
	require.Equal(t, status.Busy, ee.LastStatus)
	require.Equal(t, 4, ee.Attempts)
	require.Equal(t, 4, op.callCount())

	// Transient statuses are about ledger timing, not node health
	for _, id := range op.calls {
		require.Equal(t, op.calls[0], id)
	}
}

func TestTransientStatusBacksOff(t *testing.T) {
	x := testExecutor(t, testNetwork(t, 1, time.Second), 10)
	x.policy.Initial = 20 * time.Millisecond
	x.policy.Max = 100 * time.Millisecond

	op := &scripted{answer: func(_ context.Context, call int, _ *network.Node) (interface{}, error) {
		if call < 4 {
			return status.PlatformNotActive, nil
		}
		return status.Ok, nil
	}}

	res, err := x.Execute(context.Background(), op)
	require.NoError(t, err)
	require.Equal(t, 4, res.Attempts)
	require.Equal(t, status.Ok, res.Status)

	for i := 1; i < len(op.times); i++ {
		gap := op.times[i].Sub(op.times[i-1])
		if want := x.policy.Delay(i); gap < want {
			t.Fatalf("attempt %d came %v after the previous one, want at least %v", i+1, gap, want)
		}
	}
}

func TestTransportFaultMovesToAnotherNode(t *testing.T) {
	nw := testNetwork(t, 3, time.Hour)
	x := testExecutor(t, nw, 10)

	op := &scripted{answer: func(_ context.Context, call int, _ *network.Node) (interface{}, error) {
		if call == 1 {
			return nil, errors.New("connection refused")
		}
		return status.Ok, nil
	}}

	res, err := x.Execute(context.Background(), op)
	require.NoError(t, err)
	require.Equal(t, 2, op.callCount())
	require.NotEqual(t, op.calls[0], op.calls[1])
	require.Equal(t, op.calls[1], res.Node.AccountID)

	failed, _ := nw.Node(op.calls[0])
	require.False(t, failed.IsHealthy(time.Now()))
	require.EqualValues(t, 1, failed.Failures())
}

func TestInvalidNodeAccountMovesToAnotherNode(t *testing.T) {
	nw := testNetwork(t, 2, time.Hour)
	x := testExecutor(t, nw, 10)

	op := &scripted{answer: func(_ context.Context, call int, _ *network.Node) (interface{}, error) {
		if call == 1 {
			return status.InvalidNodeAccount, nil
		}
		return status.Ok, nil
	}}

	_, err := x.Execute(context.Background(), op)
	require.NoError(t, err)
	require.Equal(t, 2, op.callCount())
	require.NotEqual(t, op.calls[0], op.calls[1])
}

func TestCandidatesRestrictSelection(t *testing.T) {
	nw := testNetwork(t, 5, time.Second)
	x := testExecutor(t, nw, 10)

	only := hapi.AccountID{Num: 5}
	op := &scripted{
		nodes:  []hapi.AccountID{only},
		answer: always(status.Ok),
	}

	for i := 0; i < 5; i++ {
		res, err := x.Execute(context.Background(), op)
		require.NoError(t, err)
		require.Equal(t, only, res.Node.AccountID)
	}
}

func TestDeadlineCancelsInFlightSend(t *testing.T) {
	x := testExecutor(t, testNetwork(t, 3, time.Second), 10)

	// The transport ignores the context
	op := &scripted{answer: func(context.Context, int, *network.Node) (interface{}, error) {
		time.Sleep(time.Second)
		return status.Ok, nil
	}}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := x.Execute(ctx, op)
	elapsed := time.Since(start)

	require.True(t, errors.Is(err, context.DeadlineExceeded), "expected deadline error, got %v", err)
	require.True(t, IsExhausted(err, Deadline))
	if elapsed > 400*time.Millisecond {
		t.Fatalf("Execute returned after %v", elapsed)
	}
}

func TestCancelDuringBackoff(t *testing.T) {
	x := testExecutor(t, testNetwork(t, 1, time.Second), 10)
	x.policy.Initial = time.Hour
	x.policy.Max = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	op := &scripted{answer: always(status.Busy)}
	time.AfterFunc(50*time.Millisecond, cancel)

	_, err := x.Execute(ctx, op)
	require.True(t, errors.Is(err, context.Canceled), "expected cancellation, got %v", err)

	var ee *ExhaustionError
	require.True(t, errors.As(err, &ee))
	require.Equal(t, Cancelled, ee.Reason)
	require.Equal(t, status.Busy, ee.LastStatus)
}

func TestAllNodesUnhealthyBeyondDeadline(t *testing.T) {
	nw := testNetwork(t, 2, time.Hour)
	for _, n := range nw.Nodes() {
		nw.MarkUnhealthy(n, time.Now())
	}
	x := testExecutor(t, nw, 10)
	op := &scripted{answer: always(status.Ok)}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := x.Execute(ctx, op)
	require.True(t, IsExhausted(err, NodesUnhealthy), "expected NodesUnhealthy, got %v", err)
	require.Equal(t, 0, op.callCount())
}

func TestWaitsForReadmissionWithinDeadline(t *testing.T) {
	nw := testNetwork(t, 1, 50*time.Millisecond)
	nw.MarkUnhealthy(nw.Nodes()[0], time.Now())
	x := testExecutor(t, nw, 10)
	op := &scripted{answer: always(status.Ok)}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	res, err := x.Execute(ctx, op)
	require.NoError(t, err)
	require.Equal(t, 1, res.Attempts)
	require.True(t, nw.Nodes()[0].IsHealthy(time.Now()))
}

func TestConcurrentExecutions(t *testing.T) {
	nw := testNetwork(t, 4, 10*time.Millisecond)
	x := testExecutor(t, nw, 20)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			op := &scripted{answer: func(_ context.Context, call int, _ *network.Node) (interface{}, error) {
				if call%2 == 1 {
					return nil, errors.New("reset by peer")
				}
				return status.Ok, nil
			}}
			_, err := x.Execute(context.Background(), op)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
}

func TestStateString(t *testing.T) {
	states := map[State]string{
		Selecting:   "Selecting",
		Sending:     "Sending",
		Classifying: "Classifying",
		Succeeded:   "Succeeded",
		Failed:      "Failed",
		State(42):   "Unknown",
	}
	for s, want := range states {
		if s.String() != want {
			t.Fatalf("State(%d).String() = %s, want %s", s, s, want)
		}
	}
}
