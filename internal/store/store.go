// Package store implements a two-layer variable model: a Global map,
// per-directory Overlay maps, and per-scope tombstones, with deterministic
// effective-value resolution by longest matching directory prefix.
package store

import (
	"fmt"
	"sort"
	"sync"

	"github.com/cmux-dev/cmux-envd/internal/genlog"
)

// Entry is one stored (or tombstoned) value within a single scope.
type Entry struct {
	Tombstone bool
	Value     string
}

// Resolved is the outcome of effective-value resolution: the value plus the
// scope that supplied it.
type Resolved struct {
	Value  string
	Origin Scope
}

// ListItem is one row of a list(pwd) result.
type ListItem struct {
	Key    string
	Value  string
	Origin Scope
}

// Status summarizes the store for the status wire operation and the
// supplemented daemon --status surface.
type Status struct {
	Gen            uint64
	GlobalCount    int
	OverlayDirs    int
	OverlayCount   int
	TombstoneCount int
}

// Store holds the authoritative state for one daemon instance. All mutating
// operations are serialized by mu's write lock, giving single-writer
// discipline without a separate actor goroutine; readers take the read
// lock, so they run concurrently with each other but never interleave with a
// mutation.
type Store struct {
	mu       sync.RWMutex
	log      *genlog.Log
	global   map[string]Entry
	overlays map[string]map[string]Entry
}

// New returns an empty Store backed by log. There is no durable persistence
// to restore from; every daemon start begins with an empty store.
func New(log *genlog.Log) *Store {
	return &Store{
		log:      log,
		global:   make(map[string]Entry),
		overlays: make(map[string]map[string]Entry),
	}
}

func scopeID(s Scope) string {
	return s.dir
}

func (s *Store) mapFor(scope Scope) map[string]Entry {
	if scope.IsGlobal() {
		return s.global
	}
	m, ok := s.overlays[scope.dir]
	if !ok {
		m = make(map[string]Entry)
		s.overlays[scope.dir] = m
	}
	return m
}

// Set inserts or replaces (scope, key) with value.
func (s *Store) Set(scope Scope, key, value string) (uint64, error) {
	if err := ValidateKey(key); err != nil {
		return 0, err
	}
	if err := ValidateValue(value); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.mapFor(scope)[key] = Entry{Value: value}
	gen := s.log.Advance(genlog.Ref{ScopeID: scopeID(scope), Key: key}, genlog.OpSet)
	return gen, nil
}

// LoadEntry is one key/value pair in a batch passed to SetMany.
type LoadEntry struct {
	Key   string
	Value string
}

// SetMany validates every entry before applying any of them, then applies
// all of them under a single write-lock acquisition, so no other
// mutation's generation can interleave inside the batch. If any entry
// fails validation, none are applied and gen is returned as 0 alongside
// the error, giving callers like a bulk load all-or-nothing semantics.
func (s *Store) SetMany(scope Scope, entries []LoadEntry) (uint64, error) {
	for _, e := range entries {
		if err := ValidateKey(e.Key); err != nil {
			return 0, err
		}
		if err := ValidateValue(e.Value); err != nil {
			return 0, err
		}
	}
	if len(entries) == 0 {
		return s.log.Current(), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.mapFor(scope)
	var gen uint64
	for _, e := range entries {
		m[e.Key] = Entry{Value: e.Value}
		gen = s.log.Advance(genlog.Ref{ScopeID: scopeID(scope), Key: e.Key}, genlog.OpSet)
	}
	return gen, nil
}

// Unset records a tombstone for (scope, key). This always bumps gen, even
// if the key was never present in that scope (see DESIGN.md): hooks must
// learn of unset intent even against an absent key, because a tombstone in
// an inner scope is itself meaningful (it shadows an outer value) regardless
// of whether anything was there before.
func (s *Store) Unset(scope Scope, key string) (uint64, error) {
	if err := ValidateKey(key); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.mapFor(scope)[key] = Entry{Tombstone: true}
	gen := s.log.Advance(genlog.Ref{ScopeID: scopeID(scope), Key: key}, genlog.OpUnset)
	return gen, nil
}

// Get returns the effective value of key at pwd.
func (s *Store) Get(key, pwd string) (value string, ok bool, err error) {
	if err := ValidateKey(key); err != nil {
		return "", false, err
	}
	cleanPwd, err := normalizePwd(pwd)
	if err != nil {
		return "", false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	resolved, ok := resolveEffective(s.global, s.overlays, key, cleanPwd)
	if !ok {
		return "", false, nil
	}
	return resolved.Value, true, nil
}

// List returns the effective view at pwd, sorted lexicographically by key.
func (s *Store) List(pwd string) ([]ListItem, error) {
	cleanPwd, err := normalizePwd(pwd)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	candidates := make(map[string]struct{}, len(s.global))
	for k := range s.global {
		candidates[k] = struct{}{}
	}
	for dir, m := range s.overlays {
		if !(Scope{dir: dir}).contains(cleanPwd) {
			continue
		}
		for k := range m {
			candidates[k] = struct{}{}
		}
	}

	items := make([]ListItem, 0, len(candidates))
	for key := range candidates {
		resolved, ok := resolveEffective(s.global, s.overlays, key, cleanPwd)
		if !ok {
			continue
		}
		items = append(items, ListItem{Key: key, Value: resolved.Value, Origin: resolved.Origin})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Key < items[j].Key })
	return items, nil
}

// GetStatus returns a point-in-time summary of the store.
func (s *Store) GetStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{Gen: s.log.Current()}
	for _, e := range s.global {
		if e.Tombstone {
			st.TombstoneCount++
		} else {
			st.GlobalCount++
		}
	}
	st.OverlayDirs = len(s.overlays)
	for _, m := range s.overlays {
		for _, e := range m {
			if e.Tombstone {
				st.TombstoneCount++
			} else {
				st.OverlayCount++
			}
		}
	}
	return st
}

// Snapshot is an immutable, point-in-time copy of the store's data, cloned
// under a single short read lock. The Exporter uses it to compute a diff
// between two pwds without holding the store lock across the whole
// computation.
type Snapshot struct {
	Gen      uint64
	Global   map[string]Entry
	Overlays map[string]map[string]Entry
}

// TakeSnapshot clones the current store state.
func (s *Store) TakeSnapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// SnapshotForExport clones the current store state and computes the
// changed-since set in the same critical section, so the two are
// guaranteed consistent with each other (no mutation can land between
// reading "what changed" and "what the current values are").
func (s *Store) SnapshotForExport(since uint64) (Snapshot, map[genlog.Ref]uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked(), s.log.ChangedSince(since)
}

// snapshotLocked clones the current store state. Callers must hold mu (read
// or write).
func (s *Store) snapshotLocked() Snapshot {
	global := make(map[string]Entry, len(s.global))
	for k, v := range s.global {
		global[k] = v
	}
	overlays := make(map[string]map[string]Entry, len(s.overlays))
	for dir, m := range s.overlays {
		cp := make(map[string]Entry, len(m))
		for k, v := range m {
			cp[k] = v
		}
		overlays[dir] = cp
	}
	return Snapshot{Gen: s.log.Current(), Global: global, Overlays: overlays}
}

// EffectiveValue resolves key at pwd against the snapshot, with the same
// precedence rule as Store.Get.
func (sn Snapshot) EffectiveValue(key, pwd string) (Resolved, bool) {
	cleanPwd, err := normalizePwd(pwd)
	if err != nil {
		return Resolved{}, false
	}
	return resolveEffective(sn.Global, sn.Overlays, key, cleanPwd)
}

// resolveEffective implements the precedence rule: the innermost
// (longest-prefix) Dir overlay containing pwd wins if it has any entry for
// key (tombstone or value), else Global, else undefined.
func resolveEffective(global map[string]Entry, overlays map[string]map[string]Entry, key, pwd string) (Resolved, bool) {
	var bestDir string
	var bestEntry Entry
	found := false

	for dir, m := range overlays {
		if !(Scope{dir: dir}).contains(pwd) {
			continue
		}
		e, ok := m[key]
		if !ok {
			continue
		}
		if !found || len(dir) > len(bestDir) {
			bestDir = dir
			bestEntry = e
			found = true
		}
	}

	if found {
		if bestEntry.Tombstone {
			return Resolved{}, false
		}
		return Resolved{Value: bestEntry.Value, Origin: Scope{dir: bestDir}}, true
	}

	if e, ok := global[key]; ok {
		if e.Tombstone {
			return Resolved{}, false
		}
		return Resolved{Value: e.Value, Origin: Global()}, true
	}

	return Resolved{}, false
}

// Keys returns every key with an entry anywhere in the snapshot (global or
// any overlay), tombstoned or not. The Exporter uses this, together with
// the keys in genlog's changed-since set, as the keys to re-resolve.
func (sn Snapshot) Keys() []string {
	set := make(map[string]struct{})
	for k := range sn.Global {
		set[k] = struct{}{}
	}
	for _, m := range sn.Overlays {
		for k := range m {
			set[k] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}

// ListKeys returns the effective view at pwd from the snapshot, sorted by
// key, with the same result Store.List gives for the live store.
func (sn Snapshot) ListKeys(pwd string) ([]ListItem, error) {
	cleanPwd, err := normalizePwd(pwd)
	if err != nil {
		return nil, err
	}
	candidates := make(map[string]struct{}, len(sn.Global))
	for k := range sn.Global {
		candidates[k] = struct{}{}
	}
	for dir, m := range sn.Overlays {
		if !(Scope{dir: dir}).contains(cleanPwd) {
			continue
		}
		for k := range m {
			candidates[k] = struct{}{}
		}
	}
	items := make([]ListItem, 0, len(candidates))
	for key := range candidates {
		resolved, ok := resolveEffective(sn.Global, sn.Overlays, key, cleanPwd)
		if !ok {
			continue
		}
		items = append(items, ListItem{Key: key, Value: resolved.Value, Origin: resolved.Origin})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Key < items[j].Key })
	return items, nil
}

// Log exposes the underlying generation log. The daemon's export handler
// does not use it; it calls SnapshotForExport, which reads the log and the
// store state under one lock.
func (s *Store) Log() *genlog.Log {
	return s.log
}

// ScopeFromRequest turns an optional --dir style argument into a Scope,
// returning Global for an empty string.
func ScopeFromRequest(dir string) (Scope, error) {
	if dir == "" {
		return Global(), nil
	}
	scope, err := NewDirScope(dir)
	if err != nil {
		return Scope{}, fmt.Errorf("store: %w", err)
	}
	return scope, nil
}
