package services

import "github.com/GregMSThompson/hisaab-profiles/internal/models"

// Source reports where a loaded collection came from.
type Source int

const (
	SourceRemote Source = iota
	SourceCache
	SourceEmpty
)

func (s Source) String() string {
	switch s {
	case SourceRemote:
		return "remote"
	case SourceCache:
		return "cache"
	default:
		return "empty"
	}
}

// FetchResult is the outcome of one whole-collection remote fetch.
type FetchResult struct {
	Profiles models.ProfileCollection
	Err      error
}

func (r FetchResult) usable() bool {
	return r.Err == nil && len(r.Profiles) > 0
}

// CacheResult is the outcome of reading the cached snapshot. A missing
// snapshot is an empty collection with no error.
type CacheResult struct {
	Profiles models.ProfileCollection
	Err      error
}

// ResolveCollection picks the collection to install: the remote result when
// it succeeded with data, otherwise the cached snapshot, otherwise an empty
// collection. The result is always a complete collection, never a merge.
func ResolveCollection(remote FetchResult, cached CacheResult) (models.ProfileCollection, Source) {
	if remote.usable() {
		return remote.Profiles, SourceRemote
	}
	if cached.Err != nil || len(cached.Profiles) == 0 {
		return models.ProfileCollection{}, SourceEmpty
	}
	return cached.Profiles, SourceCache
}
