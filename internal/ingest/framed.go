package ingest

import (
	"encoding/binary"
	"io"
	"net"

	"go.uber.org/zap"

	"github.com/gfpop-go/gfpop/internal/log"
)

// FramedServer serves the same length-prefixed MessagePack frame format as
// Server, but over a plain net.Listener rather than owning a gnet event
// loop, and answers only the first frame of each connection before closing
// it. It exists for the case where the ingestion port is shared with the
// HTTP job API behind a cmux splitter, which hands out net.Conn values gnet
// has no way to adopt.
type FramedServer struct {
	listener net.Listener
	logger   *zap.SugaredLogger
}

// NewFramedServer wraps an already-accepting listener (typically a cmux
// sub-listener) with the batch ingestion protocol.
func NewFramedServer(l net.Listener, logger *zap.SugaredLogger) *FramedServer {
	return &FramedServer{listener: l, logger: logger}
}

// Serve accepts connections until the listener is closed, handling each on
// its own goroutine.
func (s *FramedServer) Serve() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return err
		}
		go s.handleConn(conn)
	}
}

func (s *FramedServer) handleConn(conn net.Conn) {
	defer conn.Close()

	header := make([]byte, lengthPrefixBytes)
	if _, err := io.ReadFull(conn, header); err != nil {
		return
	}
	frameLen := binary.BigEndian.Uint32(header)

	payload := make([]byte, frameLen)
	if _, err := io.ReadFull(conn, payload); err != nil {
		log.Warn("ingest: short read on batch frame:", err)
		return
	}

	resp := (&Server{logger: s.logger}).handleFrame(payload)
	body, err := marshalFrame(resp)
	if err != nil {
		return
	}

	out := make([]byte, lengthPrefixBytes+len(body))
	binary.BigEndian.PutUint32(out, uint32(len(body)))
	copy(out[lengthPrefixBytes:], body)
	conn.Write(out)
}
