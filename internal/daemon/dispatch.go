package daemon

import (
	"errors"
	"time"

	"github.com/cmux-dev/cmux-envd/internal/exporter"
	"github.com/cmux-dev/cmux-envd/internal/protocol"
	"github.com/cmux-dev/cmux-envd/internal/store"
)

// dispatch routes req to its handler and converts any resulting error into
// a wire-level Err response. Exactly one of (a populated success field,
// Err) is ever set, matching the one-request-one-response contract.
func (s *Server) dispatch(req *protocol.Request) *protocol.Response {
	if err := checkVersionCompatibility(req.ClientVersion); err != nil {
		return &protocol.Response{Err: toErrInfo(err)}
	}

	switch req.Op {
	case protocol.OpPing:
		return &protocol.Response{Gen: s.log.Current()}

	case protocol.OpStatus:
		return &protocol.Response{Status: s.statusInfo()}

	case protocol.OpSet:
		return s.handleSet(req)

	case protocol.OpUnset:
		return s.handleUnset(req)

	case protocol.OpGet:
		return s.handleGet(req)

	case protocol.OpList:
		return s.handleList(req)

	case protocol.OpExport:
		return s.handleExport(req)

	case protocol.OpLoad:
		return s.handleLoad(req)

	case protocol.OpHealth:
		return &protocol.Response{Health: s.healthInfo()}

	case protocol.OpShutdown:
		return &protocol.Response{Gen: s.log.Current()}

	default:
		return &protocol.Response{Err: &protocol.ErrInfo{
			Kind:    protocol.KindBadRequest,
			Message: "unknown operation: " + string(req.Op),
		}}
	}
}

func (s *Server) handleSet(req *protocol.Request) *protocol.Response {
	scope, err := store.ScopeFromRequest(req.Scope)
	if err != nil {
		return &protocol.Response{Err: &protocol.ErrInfo{Kind: protocol.KindBadRequest, Message: err.Error()}}
	}
	gen, err := s.store.Set(scope, req.Key, req.Value)
	if err != nil {
		return &protocol.Response{Err: toErrInfo(err)}
	}
	return &protocol.Response{Gen: gen}
}

func (s *Server) handleUnset(req *protocol.Request) *protocol.Response {
	scope, err := store.ScopeFromRequest(req.Scope)
	if err != nil {
		return &protocol.Response{Err: &protocol.ErrInfo{Kind: protocol.KindBadRequest, Message: err.Error()}}
	}
	gen, err := s.store.Unset(scope, req.Key)
	if err != nil {
		return &protocol.Response{Err: toErrInfo(err)}
	}
	return &protocol.Response{Gen: gen}
}

func (s *Server) handleGet(req *protocol.Request) *protocol.Response {
	value, ok, err := s.store.Get(req.Key, req.Pwd)
	if err != nil {
		return &protocol.Response{Err: toErrInfo(err)}
	}
	if !ok {
		return &protocol.Response{Err: &protocol.ErrInfo{Kind: protocol.KindNotFound, Message: "key undefined at this pwd"}}
	}
	return &protocol.Response{Present: true, Value: value, Gen: s.log.Current()}
}

func (s *Server) handleList(req *protocol.Request) *protocol.Response {
	items, err := s.store.List(req.Pwd)
	if err != nil {
		return &protocol.Response{Err: &protocol.ErrInfo{Kind: protocol.KindBadRequest, Message: err.Error()}}
	}
	wireItems := make([]protocol.Item, 0, len(items))
	for _, it := range items {
		wireItems = append(wireItems, protocol.Item{Key: it.Key, Value: it.Value, Origin: it.Origin.String()})
	}
	return &protocol.Response{Items: wireItems, Gen: s.log.Current()}
}

func (s *Server) handleExport(req *protocol.Request) *protocol.Response {
	shell, err := exporter.ParseShell(req.Shell)
	if err != nil {
		return &protocol.Response{Err: &protocol.ErrInfo{Kind: protocol.KindBadRequest, Message: err.Error()}}
	}
	prevPwd := req.PrevPwd
	if prevPwd == "" {
		prevPwd = req.Pwd
	}

	snap, changed := s.store.SnapshotForExport(req.Since)
	result, err := exporter.Export(snap, changed, shell, req.Pwd, prevPwd)
	if err != nil {
		return &protocol.Response{Err: &protocol.ErrInfo{Kind: protocol.KindBadRequest, Message: err.Error()}}
	}
	return &protocol.Response{Gen: result.Gen, Commands: result.Commands}
}

func (s *Server) handleLoad(req *protocol.Request) *protocol.Response {
	scope, err := store.ScopeFromRequest(req.Scope)
	if err != nil {
		return &protocol.Response{Err: &protocol.ErrInfo{Kind: protocol.KindBadRequest, Message: err.Error()}}
	}
	entries := make([]store.LoadEntry, 0, len(req.Entries))
	for _, e := range req.Entries {
		entries = append(entries, store.LoadEntry{Key: e.Key, Value: e.Value})
	}
	gen, err := s.store.SetMany(scope, entries)
	if err != nil {
		return &protocol.Response{Err: toErrInfo(err)}
	}
	return &protocol.Response{Gen: gen}
}

func (s *Server) statusInfo() *protocol.StatusInfo {
	st := s.store.GetStatus()
	return &protocol.StatusInfo{
		Gen:            st.Gen,
		GlobalCount:    st.GlobalCount,
		OverlayDirs:    st.OverlayDirs,
		OverlayCount:   st.OverlayCount,
		TombstoneCount: st.TombstoneCount,
		ServerVersion:  ServerVersion,
		Uptime:         time.Since(s.startedAt),
		ActiveConns:    int(s.activeConns.Load()),
		Metrics:        s.metrics.Snapshot(),
	}
}

// healthInfo is a lightweight liveness probe: unlike Status it never
// touches the Store.
func (s *Server) healthInfo() *protocol.HealthInfo {
	return &protocol.HealthInfo{
		ServerVersion: ServerVersion,
		Uptime:        time.Since(s.startedAt),
		ActiveConns:   int(s.activeConns.Load()),
	}
}

// toErrInfo maps a store/internal error to a wire Kind.
func toErrInfo(err error) *protocol.ErrInfo {
	switch {
	case errors.Is(err, store.ErrInvalidName):
		return &protocol.ErrInfo{Kind: protocol.KindInvalidName, Message: err.Error()}
	case errors.Is(err, store.ErrInvalidValue):
		return &protocol.ErrInfo{Kind: protocol.KindInvalidValue, Message: err.Error()}
	case errors.Is(err, store.ErrNotFound):
		return &protocol.ErrInfo{Kind: protocol.KindNotFound, Message: err.Error()}
	case errors.Is(err, errBadRequest):
		return &protocol.ErrInfo{Kind: protocol.KindBadRequest, Message: err.Error()}
	default:
		return &protocol.ErrInfo{Kind: protocol.KindBadRequest, Message: err.Error()}
	}
}
