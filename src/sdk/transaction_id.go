package sdk

import (
	"sync/atomic"
	"time"

	"github.com/mosaicnetworks/hashgraph-sdk/src/hapi"
)

// validStartSkew back-dates generated valid starts so that nodes whose clock
// is slightly behind ours do not reject them as not yet valid.
const validStartSkew = 5 * time.Second

// idGenerator hands out transaction IDs that are strictly increasing for the
// lifetime of a client, even when the clock does not move between two calls.
type idGenerator struct {
	last atomic.Int64 // unix nanos of the last reserved valid start
	now  func() time.Time
}

func newIDGenerator() *idGenerator {
	return &idGenerator{now: time.Now}
}

// next reserves n consecutive nanoseconds and returns the ID at the first
// one. Chunk i of a chunked transaction uses the (i+1)th, so chunk IDs never
// collide with the next generated ID.
func (g *idGenerator) next(payer hapi.AccountID, n int) hapi.TransactionID {
	if n < 1 {
		n = 1
	}
	for {
		last := g.last.Load()
		start := g.now().Add(-validStartSkew).UnixNano()
		if start <= last {
			start = last + 1
		}
		if g.last.CompareAndSwap(last, start+int64(n)-1) {
			return hapi.TransactionID{
				AccountID:  payer,
				ValidStart: hapi.TimestampFromTime(time.Unix(0, start)),
			}
		}
	}
}
