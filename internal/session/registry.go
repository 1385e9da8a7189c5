package session

import (
	"context"
	"errors"
	"sync"

	"shopco-storefront/internal/logger"
	"shopco-storefront/internal/metrics"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

var (
	ErrEmptySessionID = errors.New("session id is required")
	ErrRegistryClosed = errors.New("session registry is closed")
)

// Registry caches the most recently used workspaces. Persistence is
// write-through, so an evicted workspace is rebuilt from storage on next use.
//
// A workspace is pinned while a request holds it. An evicted workspace that
// is still pinned stays the only live copy of its session until the last
// holder releases it, so two copies never write over each other.
type Registry struct {
	mu      sync.Mutex
	cache   *lru.Cache[string, *Workspace]
	pinned  map[string]*Workspace // evicted but still held
	refs    map[*Workspace]int
	deps    Deps
	closing sync.WaitGroup
	closed  bool
}

func NewRegistry(size int, deps Deps) (*Registry, error) {
	r := &Registry{
		deps:   deps,
		pinned: make(map[string]*Workspace),
		refs:   make(map[*Workspace]int),
	}
	cache, err := lru.NewWithEvict[string, *Workspace](size, r.onEvict)
	if err != nil {
		return nil, err
	}
	r.cache = cache
	return r, nil
}

// Acquire returns the workspace of sid, building it on first use, and pins it
// until the matching Release.
func (r *Registry) Acquire(ctx context.Context, sid string) (*Workspace, error) {
	if sid == "" {
		return nil, ErrEmptySessionID
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrRegistryClosed
	}

	if ws, ok := r.cache.Get(sid); ok {
		r.refs[ws]++
		return ws, nil
	}
	if ws, ok := r.pinned[sid]; ok {
		// Back in the cache, so its pending close is called off.
		delete(r.pinned, sid)
		r.closing.Done()
		r.refs[ws]++
		r.cache.Add(sid, ws)
		return ws, nil
	}

	ws, err := Build(ctx, sid, r.deps)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to build workspace",
			zap.String("layer", "session"),
			zap.String("method", "Acquire"),
			zap.Error(err),
		)
		return nil, err
	}
	r.refs[ws] = 1
	r.cache.Add(sid, ws)
	metrics.WorkspacesBuilt.Inc()
	return ws, nil
}

// Release unpins ws. The last release of an evicted workspace closes it.
func (r *Registry) Release(ws *Workspace) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.refs[ws]
	if !ok {
		return
	}
	if n > 1 {
		r.refs[ws] = n - 1
		return
	}
	delete(r.refs, ws)
	if r.pinned[ws.ID] == ws {
		delete(r.pinned, ws.ID)
		r.closeAsync(ws)
	}
}

func (r *Registry) Len() int {
	return r.cache.Len()
}

// Close evicts every workspace and waits until they are all closed, which
// includes waiting for holders of pinned workspaces to release them.
func (r *Registry) Close() {
	r.mu.Lock()
	r.closed = true
	r.cache.Purge()
	r.mu.Unlock()

	r.closing.Wait()
}

// onEvict runs inside cache calls, all of which are made with r.mu held.
// Every eviction owes one closing.Done: from closeAsync, or from Acquire
// when a pinned workspace comes back.
func (r *Registry) onEvict(sid string, ws *Workspace) {
	metrics.WorkspacesEvicted.Inc()
	r.closing.Add(1)
	if r.refs[ws] > 0 {
		r.pinned[sid] = ws
		return
	}
	r.closeAsync(ws)
}

// closeAsync closes in the background because Close waits on cart syncs.
func (r *Registry) closeAsync(ws *Workspace) {
	go func() {
		defer r.closing.Done()
		ws.Close()
		logger.L().Debug("workspace closed", zap.String("layer", "session"), zap.String("session_id", ws.ID))
	}()
}
