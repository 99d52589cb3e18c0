package ingest

import (
	"testing"

	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"

	"github.com/gfpop-go/gfpop/pkg/gfpop"
)

func newTestServer() *Server {
	return &Server{maxFrameBytes: 64 << 20, logger: zap.NewNop().Sugar()}
}

func TestHandleFrameSegmentsAStdGraph(t *testing.T) {
	s := newTestServer()
	frame := jobFrame{
		Values: []float64{0, 0, 0, 10, 10, 10},
		Graph: gfpop.Graph{
			NStates: 1,
			Edges:   []gfpop.Edge{{From: 0, To: 0, Kind: gfpop.KindStd, Penalty: 5, Decay: 1}},
		},
	}
	payload, err := msgpack.Marshal(frame)
	if err != nil {
		t.Fatalf("marshal frame: %v", err)
	}

	resp := s.handleFrame(payload)
	if !resp.OK {
		t.Fatalf("expected OK response, got error %q", resp.Error)
	}
	if resp.Result.NSegments() != 2 {
		t.Errorf("expected 2 segments, got %d (%v)", resp.Result.NSegments(), resp.Result.Changepoints)
	}
}

func TestHandleFrameRejectsInvalidPayload(t *testing.T) {
	s := newTestServer()
	resp := s.handleFrame([]byte{0xff, 0x00, 0x01})
	if resp.OK {
		t.Error("expected a failure response for garbage input")
	}
	if resp.Error == "" {
		t.Error("expected a non-empty error message")
	}
}

func TestHandleFrameRejectsInvalidGraph(t *testing.T) {
	s := newTestServer()
	frame := jobFrame{
		Values: []float64{1, 2, 3},
		Graph:  gfpop.Graph{NStates: 0},
	}
	payload, err := msgpack.Marshal(frame)
	if err != nil {
		t.Fatalf("marshal frame: %v", err)
	}
	resp := s.handleFrame(payload)
	if resp.OK {
		t.Error("expected a failure response for a graph with zero states")
	}
}

func TestMarshalFrameRoundTrips(t *testing.T) {
	resp := resultFrame{OK: true, Result: gfpop.Result{N: 3, Changepoints: []int{3}, Parameters: []float64{1}, States: []int{0}, Forced: []bool{false}}}
	body, err := marshalFrame(resp)
	if err != nil {
		t.Fatalf("marshalFrame: %v", err)
	}
	var decoded resultFrame
	if err := msgpack.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Result.N != resp.Result.N {
		t.Errorf("got N=%d, want %d", decoded.Result.N, resp.Result.N)
	}
}
