// Package render pushes what the UI draws for each profile to connected
// websocket clients.
//
// BuildSnapshot turns the profile collection, the default participants and
// the current selection into cards and badges. Hub serves /ws: it sends a
// snapshot as soon as a client connects and again whenever ProfilesChanged
// or ParticipantsChanged is called, which bootstrap registers as change
// listeners on the profile store and participant service.
//
// Message format sent to clients:
//
//	{
//	  "event": "snapshot",
//	  "data":  { "profiles": [...], "participants": [...], "selected": "Ali" }
//	}
package render
