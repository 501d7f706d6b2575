package server

import (
	"sort"

	"tanks/world"
)

// Registry is the authoritative playerID -> last state table. It is owned by the
// receive loop and is not safe for concurrent use.
type Registry struct {
	players map[int64]world.PlayerState
}

func NewRegistry() *Registry {
	return &Registry{
		players: make(map[int64]world.PlayerState),
	}
}

// Apply stores update as the current state of update.ID, replacing whatever was there.
func (r *Registry) Apply(update world.PlayerState) {
	r.players[update.ID] = update
}

func (r *Registry) Remove(ID int64) {
	delete(r.players, ID)
}

func (r *Registry) Get(ID int64) (world.PlayerState, bool) {
	p, ok := r.players[ID]
	return p, ok
}

func (r *Registry) Len() int {
	return len(r.players)
}

// SnapshotExcluding copies every entry except ID, ordered by playerID.
func (r *Registry) SnapshotExcluding(ID int64) world.Roster {
	return r.snapshot(func(playerID int64) bool { return playerID != ID })
}

// Snapshot copies every entry, ordered by playerID.
func (r *Registry) Snapshot() world.Roster {
	return r.snapshot(func(int64) bool { return true })
}

func (r *Registry) snapshot(keep func(int64) bool) world.Roster {
	roster := make(world.Roster, 0, len(r.players))
	for playerID, p := range r.players {
		if keep(playerID) {
			roster = append(roster, p)
		}
	}
	sort.Slice(roster, func(i, j int) bool {
		return roster[i].ID < roster[j].ID
	})
	return roster
}
