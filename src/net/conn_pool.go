package net

import (
	"bufio"
	"errors"
	"net"
	"sync"

	"github.com/mosaicnetworks/hashgraph-sdk/src/hapi"
	"github.com/ugorji/go/codec"
)

const bufSize = 64 * 1024

// netConn is an outgoing connection with its codec.
type netConn struct {
	target string
	conn   net.Conn
	w      *bufio.Writer
	dec    *codec.Decoder
	enc    *codec.Encoder
}

func newNetConn(target string, conn net.Conn) *netConn {
	w := bufio.NewWriterSize(conn, bufSize)
	return &netConn{
		target: target,
		conn:   conn,
		w:      w,
		dec:    hapi.NewDecoder(bufio.NewReaderSize(conn, bufSize)),
		enc:    hapi.NewEncoder(w),
	}
}

// roundTrip writes the rpc type and the request, then reads back the error
// string and the response. After a failure the connection is in an unknown
// state and must be released, which broken reports.
func (c *netConn) roundTrip(rpcType uint8, args, resp interface{}) (broken bool, err error) {
	if err := c.enc.Encode(rpcType); err != nil {
		return true, err
	}
	if err := c.enc.Encode(args); err != nil {
		return true, err
	}
	if err := c.w.Flush(); err != nil {
		return true, err
	}

	var rpcError string
	if err := c.dec.Decode(&rpcError); err != nil {
		return true, err
	}
	if err := c.dec.Decode(resp); err != nil {
		return true, err
	}

	if rpcError != "" {
		return false, errors.New(rpcError)
	}
	return false, nil
}

func (c *netConn) release() error {
	return c.conn.Close()
}

// connPool keeps up to max idle connections per target.
type connPool struct {
	sync.Mutex
	max    int
	conns  map[string][]*netConn
	closed bool
}

func newConnPool(max int) *connPool {
	return &connPool{
		max:   max,
		conns: make(map[string][]*netConn),
	}
}

// get pops an idle connection to target, or returns nil.
func (p *connPool) get(target string) *netConn {
	p.Lock()
	defer p.Unlock()

	conns := p.conns[target]
	if len(conns) == 0 {
		return nil
	}
	last := len(conns) - 1
	c := conns[last]
	conns[last] = nil
	p.conns[target] = conns[:last]
	return c
}

// put returns a healthy connection to the pool, or releases it when the pool
// is full or closed.
func (p *connPool) put(c *netConn) {
	p.Lock()
	defer p.Unlock()

	if p.closed || len(p.conns[c.target]) >= p.max {
		c.release()
		return
	}
	p.conns[c.target] = append(p.conns[c.target], c)
}

// close releases every idle connection. Connections put afterwards are
// released immediately.
func (p *connPool) close() {
	p.Lock()
	defer p.Unlock()

	p.closed = true
	for target, conns := range p.conns {
		for _, c := range conns {
			c.release()
		}
		delete(p.conns, target)
	}
}
