// Package ingest implements the batch TCP submission path: a client opens a
// connection and writes length-prefixed MessagePack job frames. The gnet
// Server runs each complete frame through the engine, writes back a
// length-prefixed MessagePack result frame, and keeps the connection open
// for further frames; FramedServer answers one frame and then closes the
// connection. There is no
// streaming or incremental-update protocol; every frame is a complete,
// independent batch job.
package ingest

import (
	"encoding/binary"
	"fmt"

	"github.com/panjf2000/gnet/v2"
	"github.com/valyala/bytebufferpool"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"

	"github.com/gfpop-go/gfpop/internal/log"
	"github.com/gfpop-go/gfpop/pkg/gfpop"
)

const lengthPrefixBytes = 4

// jobFrame is the wire payload of one batch submission.
type jobFrame struct {
	Values  []float64    `msgpack:"values"`
	Weights []float64    `msgpack:"weights,omitempty"`
	Graph   gfpop.Graph  `msgpack:"graph"`
	Bound   *boundFrame  `msgpack:"bound,omitempty"`
	Robust  *robustFrame `msgpack:"robust,omitempty"`
}

type boundFrame struct {
	M  float64 `msgpack:"m"`
	MM float64 `msgpack:"mm"`
}

type robustFrame struct {
	Kind string  `msgpack:"kind"`
	K    float64 `msgpack:"k,omitempty"`
}

func (b *boundFrame) toBound() gfpop.Bound {
	if b == nil {
		return gfpop.UnconstrainedBound()
	}
	return gfpop.NewBound(b.M, b.MM)
}

func (r *robustFrame) toParams() gfpop.RobustParams {
	if r == nil {
		return gfpop.L2Params()
	}
	switch r.Kind {
	case "huber":
		return gfpop.RobustParams{Kind: gfpop.Huber, K: r.K}
	case "biweight":
		return gfpop.RobustParams{Kind: gfpop.Biweight, K: r.K}
	default:
		return gfpop.L2Params()
	}
}

// resultFrame is the wire payload of one batch response.
type resultFrame struct {
	OK     bool         `msgpack:"ok"`
	Error  string       `msgpack:"error,omitempty"`
	Result gfpop.Result `msgpack:"result,omitempty"`
}

// Server is a gnet event handler that answers every complete batch job
// frame a connection sends, in order.
type Server struct {
	gnet.BuiltinEventEngine
	addr          string
	maxFrameBytes int
	logger        *zap.SugaredLogger
}

// connState accumulates a connection's in-flight frame across OnTraffic
// callbacks, since gnet delivers data as it arrives rather than once a
// full frame is available.
type connState struct {
	buf *bytebufferpool.ByteBuffer
}

// NewServer builds an ingest Server listening on addr (e.g. "tcp://:9100").
func NewServer(addr string, maxFrameBytes int, logger *zap.SugaredLogger) *Server {
	if maxFrameBytes <= 0 {
		maxFrameBytes = 64 << 20
	}
	return &Server{addr: addr, maxFrameBytes: maxFrameBytes, logger: logger}
}

// Run blocks serving batch jobs until the gnet engine stops or fails to
// start; it takes no context and has no stop method of its own.
func (s *Server) Run() error {
	log.Info("starting gfpop batch ingestion on", s.addr)
	return gnet.Run(s, s.addr, gnet.WithMulticore(true))
}

// OnOpen allocates the per-connection frame buffer.
func (s *Server) OnOpen(c gnet.Conn) (out []byte, action gnet.Action) {
	c.SetContext(&connState{buf: bytebufferpool.Get()})
	return nil, gnet.None
}

// OnClose releases the per-connection frame buffer back to the pool.
func (s *Server) OnClose(c gnet.Conn, err error) (action gnet.Action) {
	if st, ok := c.Context().(*connState); ok && st.buf != nil {
		bytebufferpool.Put(st.buf)
	}
	return gnet.None
}

// OnTraffic accumulates bytes until a complete length-prefixed frame is
// available, then runs it through the engine and writes back the response.
func (s *Server) OnTraffic(c gnet.Conn) (action gnet.Action) {
	st, _ := c.Context().(*connState)
	if st == nil {
		return gnet.Close
	}

	data, _ := c.Next(-1)
	st.buf.Write(data)

	for {
		raw := st.buf.B
		if len(raw) < lengthPrefixBytes {
			return gnet.None
		}
		frameLen := int(binary.BigEndian.Uint32(raw[:lengthPrefixBytes]))
		if frameLen <= 0 || frameLen > s.maxFrameBytes {
			s.logger.Warnw("rejecting oversized ingest frame", "bytes", frameLen)
			return gnet.Close
		}
		if len(raw) < lengthPrefixBytes+frameLen {
			return gnet.None
		}

		payload := raw[lengthPrefixBytes : lengthPrefixBytes+frameLen]
		resp := s.handleFrame(payload)
		writeFrame(c, resp)

		remaining := append([]byte(nil), raw[lengthPrefixBytes+frameLen:]...)
		st.buf.Reset()
		st.buf.Write(remaining)
	}
}

func (s *Server) handleFrame(payload []byte) resultFrame {
	var frame jobFrame
	if err := msgpack.Unmarshal(payload, &frame); err != nil {
		return resultFrame{Error: fmt.Sprintf("invalid frame: %v", err)}
	}

	var data gfpop.Data
	if len(frame.Weights) > 0 {
		data = gfpop.NewWeightedData(frame.Values, frame.Weights)
	} else {
		data = gfpop.NewData(frame.Values)
	}

	engine, err := gfpop.New(frame.Graph, frame.Bound.toBound(), frame.Robust.toParams())
	if err != nil {
		return resultFrame{Error: fmt.Sprintf("invalid graph/bound: %v", err)}
	}

	res, err := engine.Run(data)
	if err != nil {
		return resultFrame{Error: fmt.Sprintf("segmentation failed: %v", err)}
	}
	return resultFrame{OK: true, Result: res}
}

func marshalFrame(resp resultFrame) ([]byte, error) {
	return msgpack.Marshal(resp)
}

func writeFrame(c gnet.Conn, resp resultFrame) {
	body, err := marshalFrame(resp)
	if err != nil {
		return
	}
	header := make([]byte, lengthPrefixBytes)
	binary.BigEndian.PutUint32(header, uint32(len(body)))
	c.Write(header)
	c.Write(body)
}
