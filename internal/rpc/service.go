// Package rpc implements the clipy.v1.History gRPC service that the CLI
// uses to talk to the daemon over the IPC socket.
package rpc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"go.klb.dev/clipy/internal/board"
	"go.klb.dev/clipy/internal/clip"
	"go.klb.dev/clipy/internal/message"
	"go.klb.dev/clipy/internal/view"
)

// Info is the static part of a Status response.
type Info struct {
	Version      string
	Channels     int
	PinFile      string
	Debounce     time.Duration
	DebounceMode string
	StartedAt    time.Time
}

// Service implements HistoryServer on top of a board and a clipboard
// backend.
type Service struct {
	b       *board.Board
	backend clip.Backend
	info    Info
	watches atomic.Uint64
}

var _ HistoryServer = (*Service)(nil)

// New returns a Service backed by b and backend.
func New(b *board.Board, backend clip.Backend, info Info) *Service {
	return &Service{b: b, backend: backend, info: info}
}

// List implements HistoryServer.List.
func (s *Service) List(_ context.Context, req *message.ListRequest) (*message.ListResponse, error) {
	f, err := view.ParseFilter(req.Filter)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	return &message.ListResponse{Items: s.b.View(f)}, nil
}

// TogglePin implements HistoryServer.TogglePin.
func (s *Service) TogglePin(_ context.Context, req *message.ItemRequest) (*message.ItemResponse, error) {
	it, err := s.b.Lookup(req.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	it, err = s.b.TogglePin(it.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &message.ItemResponse{Item: it}, nil
}

// Delete implements HistoryServer.Delete.
func (s *Service) Delete(_ context.Context, req *message.ItemRequest) (*message.Empty, error) {
	it, err := s.b.Lookup(req.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	if err := s.b.Delete(it.ID); err != nil {
		return nil, toStatus(err)
	}
	return &message.Empty{}, nil
}

// Restore implements HistoryServer.Restore. The write echoes back through
// ingestion, so the restored content becomes the newest history entry.
func (s *Service) Restore(_ context.Context, req *message.ItemRequest) (*message.ItemResponse, error) {
	it, err := s.b.Lookup(req.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	if err := clip.Restore(s.backend, it.Content); err != nil {
		slog.Error("clipboard restore failed", "id", it.ID, "err", err)
		return nil, toStatus(fmt.Errorf("restore %s: %w", it.ID, err))
	}
	board.LogItem("clipboard restored", it)
	return &message.ItemResponse{Item: it}, nil
}

// Copy implements HistoryServer.Copy.
func (s *Service) Copy(_ context.Context, req *message.CopyRequest) (*message.Empty, error) {
	c, err := req.Content()
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := clip.Restore(s.backend, c); err != nil {
		slog.Error("clipboard write failed", "kind", c.Kind(), "err", err)
		return nil, toStatus(err)
	}
	slog.Debug("clipboard written", "kind", c.Kind())
	return &message.Empty{}, nil
}

// Status implements HistoryServer.Status.
func (s *Service) Status(context.Context, *message.StatusRequest) (*message.StatusResponse, error) {
	st := s.b.Stats()
	return &message.StatusResponse{
		Version:      s.info.Version,
		Backend:      s.backend.Name(),
		Channels:     s.info.Channels,
		HistoryLen:   st.HistoryLen,
		HistoryCap:   st.HistoryCap,
		Pinned:       st.Pinned,
		Watchers:     st.Watchers,
		PinFile:      s.info.PinFile,
		Debounce:     s.info.Debounce,
		DebounceMode: s.info.DebounceMode,
		StartedAt:    s.info.StartedAt,
	}, nil
}

// Watch implements HistoryServer.Watch.
func (s *Service) Watch(req *message.WatchRequest, stream grpc.ServerStreamingServer[message.Event]) error {
	f, err := view.ParseFilter(req.Filter)
	if err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}

	w := &watchPeer{
		id:     fmt.Sprintf("watch-%d", s.watches.Add(1)),
		filter: f,
		ch:     make(chan board.Event, 16),
	}
	s.b.Register(w)
	defer s.b.Unregister(w)

	slog.Info("watch started", "watcher", w.id, "filter", f)

	for {
		select {
		case <-stream.Context().Done():
			return nil
		case ev := <-w.ch:
			if err := stream.Send(&message.Event{Type: string(ev.Type), Item: ev.Item}); err != nil {
				return err
			}
		}
	}
}

// toStatus maps board and backend errors onto gRPC codes.
func toStatus(err error) error {
	switch {
	case errors.Is(err, board.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, board.ErrAmbiguous):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// watchPeer is a transient board.Watcher backed by a Watch stream.
type watchPeer struct {
	id     string
	filter view.Filter
	ch     chan board.Event
}

func (w *watchPeer) ID() string { return w.id }

func (w *watchPeer) Send(ev board.Event) {
	if !w.filter.Match(ev.Item.Kind()) {
		return
	}
	select {
	case w.ch <- ev:
	default:
		slog.Warn("watch channel full, dropping", "watcher", w.id, "event", ev.Type)
	}
}
