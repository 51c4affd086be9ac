package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kjannette/fourmeme-abis/internal/abis"
	"github.com/kjannette/fourmeme-abis/internal/models"
)

// SnapshotStore persists registry entries. *repository.SnapshotRepo
// satisfies it.
type SnapshotStore interface {
	LatestHashes(ctx context.Context) (map[string]string, error)
	Record(ctx context.Context, s *models.ABISnapshot) (*models.ABISnapshot, error)
}

// Notifier delivers change messages. *notifications.Sender satisfies it.
type Notifier interface {
	Send(ctx context.Context, msg string) error
}

type ReloadConfig struct {
	Dir      string
	Interval time.Duration // e.g. 15*time.Minute
	OnChange func(reg *abis.Registry, changed []abis.Name)
}

// ReloadScheduler periodically rebuilds the registry from Dir and swaps it
// in. A failed reload keeps the previous registry.
type ReloadScheduler struct {
	store  SnapshotStore
	notify Notifier
	cfg    ReloadConfig

	current  atomic.Pointer[abis.Registry]
	reloadMu sync.Mutex

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewReloadScheduler starts from initial. store and notify may be nil.
func NewReloadScheduler(initial *abis.Registry, store SnapshotStore, notify Notifier, cfg ReloadConfig) *ReloadScheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = 15 * time.Minute
	}
	if initial == nil {
		initial = abis.Default()
	}
	s := &ReloadScheduler{
		store:  store,
		notify: notify,
		cfg:    cfg,
	}
	s.current.Store(initial)
	return s
}

// Current returns the registry in effect.
func (s *ReloadScheduler) Current() *abis.Registry {
	return s.current.Load()
}

func (s *ReloadScheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		fmt.Println("[RELOAD] Already running")
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		// Initial pass records the starting state
		s.runOnce()

		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				s.runOnce()
			}
		}
	}()

	fmt.Printf("[RELOAD] Started (every %s, dir=%q)\n", s.cfg.Interval, s.cfg.Dir)
}

func (s *ReloadScheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	close(s.stopCh)
	s.running = false
	s.mu.Unlock()

	s.wg.Wait()
	fmt.Println("[RELOAD] Stopped")
}

func (s *ReloadScheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// ReloadNow reloads outside the schedule and returns the names whose
// content changed.
func (s *ReloadScheduler) ReloadNow(ctx context.Context) ([]abis.Name, error) {
	fmt.Println("[RELOAD] Manual reload triggered")
	return s.reload(ctx)
}

func (s *ReloadScheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := s.reload(ctx); err != nil {
		fmt.Printf("[RELOAD] Reload failed: %v\n", err)
	}
}

func (s *ReloadScheduler) reload(ctx context.Context) ([]abis.Name, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	next, err := abis.Load(s.cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("load ABIs: %w", err)
	}

	prev := s.current.Load()
	changed := next.Diff(prev)
	s.current.Store(next)

	if s.store != nil {
		n, err := s.recordSnapshots(ctx, next)
		if err != nil {
			fmt.Printf("[RELOAD] Warning: could not record snapshots: %v\n", err)
		} else if n > 0 {
			fmt.Printf("[RELOAD] Recorded %d snapshot(s)\n", n)
		}
	}

	if len(changed) == 0 {
		fmt.Printf("[RELOAD] Registry unchanged (fingerprint %s)\n", next.Fingerprint().Hex())
		return nil, nil
	}

	msg := fmt.Sprintf("ABI registry changed: %s (fingerprint %s)",
		joinSymbols(changed), next.Fingerprint().Hex())
	fmt.Printf("[RELOAD] %s\n", msg)

	if s.notify != nil {
		if err := s.notify.Send(ctx, msg); err != nil {
			fmt.Printf("[RELOAD] Warning: notification failed: %v\n", err)
		}
	}
	if s.cfg.OnChange != nil {
		s.cfg.OnChange(next, changed)
	}
	return changed, nil
}

// recordSnapshots stores every entry whose hash differs from the last
// recorded one.
func (s *ReloadScheduler) recordSnapshots(ctx context.Context, reg *abis.Registry) (int, error) {
	latest, err := s.store.LatestHashes(ctx)
	if err != nil {
		return 0, err
	}

	recorded := 0
	now := time.Now()
	for _, e := range reg.Entries() {
		snap := NewSnapshot(e, now)
		if latest[snap.Name] == snap.ContentHash {
			continue
		}
		if _, err := s.store.Record(ctx, snap); err != nil {
			return recorded, fmt.Errorf("record %s: %w", e.Name, err)
		}
		recorded++
	}
	return recorded, nil
}

// NewSnapshot converts a registry entry into a snapshot row.
func NewSnapshot(e abis.Entry, ts time.Time) *models.ABISnapshot {
	return &models.ABISnapshot{
		Timestamp:     ts,
		Name:          string(e.Name),
		Symbol:        e.Symbol(),
		Source:        e.Source,
		ContentHash:   e.Hash.Hex(),
		FragmentCount: e.FragmentCount,
		ABIJSON:       []byte(e.JSON),
	}
}

func joinSymbols(names []abis.Name) string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = n.Symbol()
	}
	return strings.Join(out, ", ")
}
