package render

import (
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/GregMSThompson/hisaab-profiles/internal/models"
	"github.com/GregMSThompson/hisaab-profiles/internal/services"
)

// Size names a badge size used by the UI.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// Pixels returns the edge length of the badge. Unknown sizes render medium.
func (s Size) Pixels() int {
	switch s {
	case SizeSmall:
		return 30
	case SizeLarge:
		return 80
	default:
		return 40
	}
}

// Badge is the round avatar shown next to a name: the photo when there is
// one, otherwise the initial on the name's palette color.
type Badge struct {
	Initial   string `json:"initial"`
	Color     string `json:"color"`
	HasPhoto  bool   `json:"hasPhoto"`
	PhotoData string `json:"photoData,omitempty"`
	SizePx    int    `json:"sizePx"`
}

// NewBadge builds the badge for key. The color and initial come from the
// key, not the display name, so they stay stable across renames.
func NewBadge(key string, p models.Profile, found bool, size Size) Badge {
	b := Badge{
		Initial: initial(key),
		Color:   services.DeriveDisplayColor(key),
		SizePx:  size.Pixels(),
	}
	if found && p.PhotoData != "" {
		b.HasPhoto = true
		b.PhotoData = p.PhotoData
	}
	return b
}

func initial(name string) string {
	r, _ := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return ""
	}
	return string(unicode.ToUpper(r))
}

// Card is the profile detail view.
type Card struct {
	Key         string   `json:"key"`
	Name        string   `json:"name"`
	Mobile      string   `json:"mobile"`
	Bank        string   `json:"bank"`
	Banks       []string `json:"banks"`
	IBAN        string   `json:"iban"`
	LastUpdated string   `json:"lastUpdated,omitempty"`
	Badge       Badge    `json:"badge"`
}

func NewCard(key string, p models.Profile) Card {
	name := p.Name
	if strings.TrimSpace(name) == "" {
		name = key
	}
	return Card{
		Key:         key,
		Name:        name,
		Mobile:      p.Mobile,
		Bank:        p.Bank,
		Banks:       services.ParseBankList(p.Bank),
		IBAN:        p.IBAN,
		LastUpdated: p.LastUpdated,
		Badge:       NewBadge(key, p, true, SizeLarge),
	}
}

// Participant is one row of the default participants admin list.
type Participant struct {
	Name       string `json:"name"`
	HasProfile bool   `json:"hasProfile"`
	Badge      Badge  `json:"badge"`
}

// Snapshot is everything the UI needs to redraw profile decorations.
type Snapshot struct {
	Profiles     []Card        `json:"profiles"`
	Participants []Participant `json:"participants"`
	Selected     *Card         `json:"selected,omitempty"`
	GeneratedAt  time.Time     `json:"generatedAt"`
}

// BuildSnapshot renders the collection sorted by key. A selected key with
// no stored profile renders as its default card.
func BuildSnapshot(profiles models.ProfileCollection, participants []string, selected string, now time.Time) Snapshot {
	keys := profiles.Keys()
	sort.Strings(keys)

	snap := Snapshot{
		Profiles:     make([]Card, 0, len(keys)),
		Participants: make([]Participant, 0, len(participants)),
		GeneratedAt:  now.UTC(),
	}
	for _, k := range keys {
		snap.Profiles = append(snap.Profiles, NewCard(k, profiles[k]))
	}
	for _, name := range participants {
		p, ok := profiles[name]
		snap.Participants = append(snap.Participants, Participant{
			Name:       name,
			HasProfile: ok,
			Badge:      NewBadge(name, p, ok, SizeSmall),
		})
	}
	if selected != "" {
		p, ok := profiles[selected]
		if !ok {
			p = models.Profile{Name: selected}
		}
		card := NewCard(selected, p)
		snap.Selected = &card
	}
	return snap
}
