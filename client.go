package main

import (
	"context"
	"fmt"
	"time"

	"gosnake/invoke"
	"gosnake/roomctl"
	"gosnake/transport"
)

type endpoints struct {
	server     string
	api        string
	production bool
}

// session is one connected player: realtime link, request channel and the
// room controller on top of them.
type session struct {
	rt  *transport.Client
	ctl *roomctl.Controller
}

func openSession(ctx context.Context, ep endpoints, events roomctl.Events) (*session, error) {
	rt := transport.New(transport.Config{
		URL:        ep.server,
		Production: ep.production,
		Logger:     libLogger(),
	})
	req := invoke.RealtimeFirst{
		Realtime: rt,
		Fallback: invoke.NewHTTPChannel(ep.api),
		Timeout:  10 * time.Second,
	}
	inv := invoke.New(rt, req, libLogger())
	inv.SetDebug(logDebug)
	ctl := roomctl.New(ctx, rt, inv, roomctl.Config{
		Production: ep.production,
		Logger:     libLogger(),
		Debug:      logDebug,
		Events:     events,
	})
	if err := rt.Open(ctx); err != nil {
		ctl.Close()
		return nil, fmt.Errorf("open %s: %w", ep.server, err)
	}
	return &session{rt: rt, ctl: ctl}, nil
}

// close leaves the room, bounded by a short timeout, and shuts the link.
func (s *session) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := s.ctl.Leave(ctx); err != nil {
		logDebug("leave on exit: %v", err)
	}
	s.ctl.Close()
	if err := s.rt.Close(); err != nil {
		logDebug("close transport: %v", err)
	}
}
