package models

// Profile is one participant's contact and banking details, keyed by the
// participant's display name.
type Profile struct {
	Name        string `firestore:"name" json:"name"`
	Mobile      string `firestore:"mobile" json:"mobile"`
	Bank        string `firestore:"bank" json:"bank"` // may be a comma-separated list
	IBAN        string `firestore:"iban" json:"iban"`
	PhotoData   string `firestore:"photoData,omitempty" json:"photoData,omitempty"` // data URL
	LastUpdated string `firestore:"lastUpdated" json:"lastUpdated"`
}

// ProfileCollection maps a display name to its profile.
type ProfileCollection map[string]Profile

// Clone returns a shallow copy; Profile has no reference fields.
func (c ProfileCollection) Clone() ProfileCollection {
	out := make(ProfileCollection, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Keys returns the collection keys in no particular order.
func (c ProfileCollection) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}
