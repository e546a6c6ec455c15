package reserve

import (
	"sort"

	"github.com/google/uuid"
)

// AssignTable picks the table for a candidate interval and party size from an
// explicit snapshot of tables and their active bookings. Smallest-fit-first:
// candidates are active tables with capacity >= partySize, ordered by capacity
// then table ID so repeated calls over the same snapshot are deterministic.
// Returns ErrNoSuitableTable when no table is large enough and
// ErrNoAvailability when every suitable table conflicts.
//
// Pure function of its arguments; safe to call concurrently.
func AssignTable(tables []Table, activeByTable map[uuid.UUID][]Booking, candidate Interval, partySize int) (Table, error) {
	if partySize < 1 {
		return Table{}, ErrInvalidPartySize
	}

	suitable := make([]Table, 0, len(tables))
	for _, t := range tables {
		if t.Active && t.Capacity >= partySize {
			suitable = append(suitable, t)
		}
	}
	if len(suitable) == 0 {
		return Table{}, ErrNoSuitableTable
	}

	sort.SliceStable(suitable, func(i, j int) bool {
		if suitable[i].Capacity != suitable[j].Capacity {
			return suitable[i].Capacity < suitable[j].Capacity
		}
		return suitable[i].ID.String() < suitable[j].ID.String()
	})

	for _, t := range suitable {
		if !TableConflicts(candidate, activeByTable[t.ID]) {
			return t, nil
		}
	}
	return Table{}, ErrNoAvailability
}
