package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/GregMSThompson/hisaab-profiles/internal/models"
	"github.com/GregMSThompson/hisaab-profiles/pkg/logger"
)

const (
	// ProfilesCacheKey is the local cache key of the collection snapshot.
	ProfilesCacheKey = "hisaabKitaabProfiles"

	timestampLayout = "2006-01-02T15:04:05.000Z"
)

// remoteProfileStore is the shared document store the profiles live in.
type remoteProfileStore interface {
	FetchAll(ctx context.Context) (models.ProfileCollection, error)
	Set(ctx context.Context, key string, p models.Profile) error
	Subscribe(ctx context.Context, fn func(models.ProfileCollection)) error
}

// localCache is the per-device fallback store.
type localCache interface {
	GetString(ctx context.Context, key string) (string, bool, error)
	SetString(ctx context.Context, key, value string) error
}

// ChangeListener receives the collection after every change. Listeners must
// not modify the map they are given.
type ChangeListener func(ctx context.Context, profiles models.ProfileCollection)

type profileStore struct {
	remote remoteProfileStore
	cache  localCache
	now    func() time.Time

	mu          sync.RWMutex
	profiles    models.ProfileCollection
	selected    string
	initialized bool

	lmu       sync.Mutex
	listeners map[int]ChangeListener
	nextID    int
}

func NewProfileStore(remote remoteProfileStore, cache localCache) *profileStore {
	return &profileStore{
		remote:    remote,
		cache:     cache,
		now:       time.Now,
		profiles:  models.ProfileCollection{},
		listeners: make(map[int]ChangeListener),
	}
}

// Initialize attaches the remote listener and loads the collection. Calls
// after the first are no-ops. The listener stays attached until ctx is done.
func (s *profileStore) Initialize(ctx context.Context) {
	s.mu.Lock()
	if s.initialized {
		s.mu.Unlock()
		return
	}
	s.initialized = true
	s.mu.Unlock()

	logger.FromContext(ctx).Info("profile store initialized")
	s.subscribeRemote(ctx)
	s.LoadAll(ctx)
}

func (s *profileStore) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// LoadAll replaces the collection with the remote one, or with the cached
// snapshot when the remote is empty or unreachable.
func (s *profileStore) LoadAll(ctx context.Context) Source {
	log := logger.FromContext(ctx)

	profiles, err := s.remote.FetchAll(ctx)
	remote := FetchResult{Profiles: profiles, Err: err}

	var cached CacheResult
	if !remote.usable() {
		if err != nil {
			log.Warn("failed to load profiles from remote store, using local cache", "error", err)
		} else {
			log.Info("no profiles in remote store, using local cache")
		}
		cached = s.readCache(ctx)
	}

	coll, src := ResolveCollection(remote, cached)
	s.replace(coll)
	log.Info("profiles loaded", "source", src.String(), "count", len(coll))

	if src == SourceRemote {
		s.PersistToLocalCache(ctx)
	}
	s.notify(ctx)
	return src
}

// LoadFromLocalCache installs the cached snapshot, or an empty collection
// when there is none or it cannot be parsed.
func (s *profileStore) LoadFromLocalCache(ctx context.Context) {
	coll, src := ResolveCollection(FetchResult{}, s.readCache(ctx))
	s.replace(coll)
	logger.FromContext(ctx).Info("profiles loaded", "source", src.String(), "count", len(coll))
}

func (s *profileStore) readCache(ctx context.Context) CacheResult {
	log := logger.FromContext(ctx)

	raw, ok, err := s.cache.GetString(ctx, ProfilesCacheKey)
	if err != nil {
		log.Error("failed to read profiles from local cache", "error", err)
		return CacheResult{Err: err}
	}
	if !ok {
		return CacheResult{Profiles: models.ProfileCollection{}}
	}

	var coll models.ProfileCollection
	if err := json.Unmarshal([]byte(raw), &coll); err != nil {
		log.Error("failed to parse cached profiles", "error", err)
		return CacheResult{Err: err}
	}
	return CacheResult{Profiles: coll}
}

// PersistToLocalCache writes the current collection to the local cache.
// Failures are logged only.
func (s *profileStore) PersistToLocalCache(ctx context.Context) {
	log := logger.FromContext(ctx)

	b, err := json.Marshal(s.Profiles())
	if err != nil {
		log.Error("failed to encode profiles for local cache", "error", err)
		return
	}
	if err := s.cache.SetString(ctx, ProfilesCacheKey, string(b)); err != nil {
		log.Error("failed to save profiles to local cache", "error", err)
	}
}

// Save writes the normalized profile to the remote store and reports whether
// that succeeded. The in-memory collection and local cache are updated
// either way, so false does not mean nothing changed.
func (s *profileStore) Save(ctx context.Context, key string, data models.Profile) bool {
	log, ctx := logger.With(ctx, "profile", key)

	record := normalizeProfile(key, data, s.now())
	if err := s.remote.Set(ctx, key, record); err != nil {
		log.Error("failed to save profile to remote store, keeping local copy", "error", err)

		// the input is kept as supplied here, not the normalized record
		s.put(key, data)
		s.PersistToLocalCache(ctx)
		s.notify(ctx)
		return false
	}

	s.put(key, record)
	s.PersistToLocalCache(ctx)
	log.Info("profile saved")
	s.notify(ctx)
	return true
}

func normalizeProfile(key string, data models.Profile, now time.Time) models.Profile {
	name := data.Name
	if name == "" {
		name = key
	}
	return models.Profile{
		Name:        name,
		Mobile:      data.Mobile,
		Bank:        data.Bank,
		IBAN:        data.IBAN,
		PhotoData:   data.PhotoData, // omitted from the stored shape when empty
		LastUpdated: now.UTC().Format(timestampLayout),
	}
}

func (s *profileStore) Get(key string) (models.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[key]
	return p, ok
}

// GetOrDefault returns the stored profile or a blank one named after key.
// The blank profile is not inserted.
func (s *profileStore) GetOrDefault(key string) models.Profile {
	if p, ok := s.Get(key); ok {
		return p
	}
	return models.Profile{Name: key}
}

// GetBankList returns the lowercased banks of the profile, or an empty slice.
func (s *profileStore) GetBankList(key string) []string {
	p, ok := s.Get(key)
	if !ok {
		return []string{}
	}
	return ParseBankList(p.Bank)
}

// Profiles returns a copy of the whole collection.
func (s *profileStore) Profiles() models.ProfileCollection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profiles.Clone()
}

func (s *profileStore) Select(ctx context.Context, key string) {
	s.mu.Lock()
	s.selected = key
	s.mu.Unlock()
	s.notify(ctx)
}

// Selected returns the selected key; ok is false when nothing is selected.
func (s *profileStore) Selected() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected, s.selected != ""
}

func (s *profileStore) ClearSelection(ctx context.Context) {
	s.mu.Lock()
	s.selected = ""
	s.mu.Unlock()
	s.notify(ctx)
}

// OnChange registers l and returns a function that removes it.
func (s *profileStore) OnChange(l ChangeListener) func() {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	return func() {
		s.lmu.Lock()
		delete(s.listeners, id)
		s.lmu.Unlock()
	}
}

func (s *profileStore) subscribeRemote(ctx context.Context) {
	log := logger.FromContext(ctx)

	err := s.remote.Subscribe(ctx, func(coll models.ProfileCollection) {
		// an empty node is ignored so a fresh remote cannot wipe the cache
		if len(coll) == 0 {
			return
		}
		s.replace(coll)
		s.PersistToLocalCache(ctx)
		log.Info("remote profile update received", "count", len(coll))
		s.notify(ctx)
	})
	if err != nil {
		log.Error("failed to set up remote profile listener", "error", err)
	}
}

func (s *profileStore) replace(coll models.ProfileCollection) {
	s.mu.Lock()
	s.profiles = coll.Clone()
	s.mu.Unlock()
}

func (s *profileStore) put(key string, p models.Profile) {
	s.mu.Lock()
	s.profiles[key] = p
	s.mu.Unlock()
}

func (s *profileStore) notify(ctx context.Context) {
	s.lmu.Lock()
	ls := make([]ChangeListener, 0, len(s.listeners))
	for _, l := range s.listeners {
		ls = append(ls, l)
	}
	s.lmu.Unlock()

	if len(ls) == 0 {
		return
	}
	snapshot := s.Profiles()
	for _, l := range ls {
		l(ctx, snapshot)
	}
}
