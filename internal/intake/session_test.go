package intake

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func waitTicket(t *testing.T, tk *Ticket) Status {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	st, err := tk.Wait(ctx)
	if err != nil {
		t.Fatalf("ticket %s did not resolve: %v", tk.ID(), err)
	}
	return st
}

func TestSession_InitialState(t *testing.T) {
	s := NewSession(context.Background(), newTestPipeline(t))
	snap := s.Current()

	if snap.Status.Kind() != KindNotSelected {
		t.Errorf("initial Kind: got %s, want not_selected", snap.Status.Kind())
	}
	if snap.Pending {
		t.Error("initial snapshot should not be pending")
	}
	if snap.SelectionID != "" {
		t.Errorf("initial SelectionID: got %q, want empty", snap.SelectionID)
	}
}

func TestSession_Select(t *testing.T) {
	s := NewSession(context.Background(), newTestPipeline(t))
	defer s.Close()

	tk := s.Select(BytesHandle{FileName: "x.png", Data: pngBytes(t, 64, 32)})
	if tk.ID() == "" {
		t.Fatal("ticket has no selection id")
	}

	st := waitTicket(t, tk)
	if st.Kind() != KindSelected {
		t.Fatalf("Kind: got %s, want selected", st.Kind())
	}
	if tk.Superseded() {
		t.Error("sole selection should not be superseded")
	}

	snap := s.Current()
	if snap.Pending || snap.SelectionID != tk.ID() || snap.Status.Message() != "Image size: 64x32 px" {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
}

func TestSession_SelectNothingResetsStatus(t *testing.T) {
	s := NewSession(context.Background(), newTestPipeline(t))
	defer s.Close()

	waitTicket(t, s.Select(BytesHandle{FileName: "x.png", Data: pngBytes(t, 8, 8)}))

	tk := s.Select(nil)
	select {
	case <-tk.Done():
	default:
		t.Fatal("selecting nothing should resolve immediately")
	}

	snap := s.Current()
	if snap.Status.Kind() != KindNotSelected || snap.Pending {
		t.Errorf("unexpected snapshot after empty selection: %+v", snap)
	}
}

func TestSession_PendingKeepsPreviousStatus(t *testing.T) {
	gate := newGatedLoader()
	p := NewPipeline(gate, NewImageDecoder(nil), WithLogger(zaptest.NewLogger(t)))
	s := NewSession(context.Background(), p)
	defer s.Close()

	tk := s.Select(BytesHandle{FileName: "x.png", Data: pngBytes(t, 5, 5)})
	<-gate.started

	snap := s.Current()
	if !snap.Pending {
		t.Error("snapshot should be pending while loading")
	}
	if snap.Status.Kind() != KindNotSelected {
		t.Errorf("pending snapshot should keep previous status, got %s", snap.Status.Kind())
	}
	if snap.SelectionID != tk.ID() {
		t.Errorf("pending SelectionID: got %q, want %q", snap.SelectionID, tk.ID())
	}

	close(gate.release)
	if st := waitTicket(t, tk); st.Kind() != KindSelected {
		t.Errorf("Kind: got %s, want selected", st.Kind())
	}
	if s.Current().Pending {
		t.Error("snapshot should not be pending after resolution")
	}
}

func TestSession_LastWriteWins(t *testing.T) {
	slow := newGatedLoader()
	loader := &routedLoader{
		gated: map[string]*gatedLoader{"slow.png": slow},
		next:  &DataURLLoader{},
	}
	p := NewPipeline(loader, NewImageDecoder(nil), WithLogger(zaptest.NewLogger(t)))
	s := NewSession(context.Background(), p)
	defer s.Close()

	first := s.Select(BytesHandle{FileName: "slow.png", Data: pngBytes(t, 100, 100)})
	<-slow.started

	second := s.Select(BytesHandle{FileName: "fast.txt", Data: []byte("not an image")})
	if st := waitTicket(t, second); st.Kind() != KindNotImage {
		t.Fatalf("second Kind: got %s, want not_image", st.Kind())
	}

	// Let the abandoned load run to completion as well.
	close(slow.release)
	waitTicket(t, first)

	if !first.Superseded() {
		t.Error("first selection should be superseded")
	}
	if second.Superseded() {
		t.Error("second selection should not be superseded")
	}

	snap := s.Current()
	if snap.SelectionID != second.ID() {
		t.Errorf("SelectionID: got %q, want %q", snap.SelectionID, second.ID())
	}
	if snap.Status.Kind() != KindNotImage {
		t.Errorf("stale selection overwrote status: got %s", snap.Status.Kind())
	}
}

func TestSession_CloseCancelsInFlight(t *testing.T) {
	gate := newGatedLoader()
	defer close(gate.release)

	s := NewSession(context.Background(), NewPipeline(gate, NewImageDecoder(nil)))
	tk := s.Select(BytesHandle{FileName: "x.png", Data: []byte("x")})
	<-gate.started

	s.Close()
	if st := waitTicket(t, tk); st.Kind() != KindFileError {
		t.Errorf("Kind: got %s, want file_error", st.Kind())
	}
}

func TestTicket_WaitContext(t *testing.T) {
	tk := newTicket("pending")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := tk.Wait(ctx); err == nil {
		t.Error("Wait should return the context error for an unresolved ticket")
	}
	if tk.Superseded() {
		t.Error("unresolved ticket should not report superseded")
	}
}

func TestTicket_WaitResolvedWithDoneContext(t *testing.T) {
	tk := newTicket("done")
	tk.resolve(NotSelected{}, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Repeat so a random select choice would show up.
	for i := 0; i < 100; i++ {
		st, err := tk.Wait(ctx)
		if err != nil {
			t.Fatalf("Wait returned %v for a resolved ticket", err)
		}
		if st.Kind() != KindNotSelected {
			t.Fatalf("Kind: got %s, want not_selected", st.Kind())
		}
	}
}
