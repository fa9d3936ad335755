package services

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/GregMSThompson/hisaab-profiles/internal/errs"
	"github.com/GregMSThompson/hisaab-profiles/pkg/logger"
)

// ParticipantsCacheKey holds the default participants as a JSON string array.
const ParticipantsCacheKey = "hisaabKitaabDefaultParticipants"

// ParticipantsListener receives the list after every change.
type ParticipantsListener func(ctx context.Context, names []string)

// participantService manages the names used to pre-populate new sheets. The
// list is independent of the profiles: removing a name keeps its profile.
type participantService struct {
	cache    localCache
	defaults []string

	mu        sync.Mutex
	listeners []ParticipantsListener
}

func NewParticipantService(cache localCache, defaults []string) *participantService {
	return &participantService{cache: cache, defaults: append([]string(nil), defaults...)}
}

// List returns the stored list, falling back to the configured defaults.
func (s *participantService) List(ctx context.Context) []string {
	log := logger.FromContext(ctx)

	raw, ok, err := s.cache.GetString(ctx, ParticipantsCacheKey)
	if err != nil {
		log.Error("failed to read default participants", "error", err)
		return s.fallback()
	}
	if !ok {
		return s.fallback()
	}

	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil || names == nil {
		if err != nil {
			log.Error("failed to parse default participants", "error", err)
		}
		return s.fallback()
	}
	return names
}

func (s *participantService) fallback() []string {
	if s.defaults == nil {
		return []string{}
	}
	return append([]string(nil), s.defaults...)
}

func (s *participantService) Add(ctx context.Context, name string) ([]string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.NewValidationError("participant name is required")
	}

	s.mu.Lock()
	names := s.List(ctx)
	for _, n := range names {
		if n == name {
			s.mu.Unlock()
			return names, nil
		}
	}
	names = append(names, name)
	err := s.write(ctx, names)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("default participant added", "name", name)
	s.notify(ctx, names)
	return names, nil
}

// Remove drops name from the list. The profile stored under name is kept.
func (s *participantService) Remove(ctx context.Context, name string) ([]string, error) {
	s.mu.Lock()
	current := s.List(ctx)
	names := make([]string, 0, len(current))
	for _, n := range current {
		if n != name {
			names = append(names, n)
		}
	}
	err := s.write(ctx, names)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("default participant removed", "name", name)
	s.notify(ctx, names)
	return names, nil
}

func (s *participantService) OnChange(l ParticipantsListener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()
}

func (s *participantService) write(ctx context.Context, names []string) error {
	b, err := json.Marshal(names)
	if err != nil {
		return errs.NewCacheError(ParticipantsCacheKey, "failed to encode participants", err)
	}
	return s.cache.SetString(ctx, ParticipantsCacheKey, string(b))
}

func (s *participantService) notify(ctx context.Context, names []string) {
	s.mu.Lock()
	ls := append([]ParticipantsListener(nil), s.listeners...)
	s.mu.Unlock()
	for _, l := range ls {
		l(ctx, append([]string(nil), names...))
	}
}
