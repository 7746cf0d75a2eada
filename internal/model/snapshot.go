package model

// Snapshot is the full per-column ordered list of card ids submitted after
// any move gesture. It always carries every column key, even for columns
// the gesture did not touch, so the server receives one consistent picture
// instead of a diff.
type Snapshot map[string][]string

// EmptySnapshot returns a snapshot with an empty id list for every column.
func EmptySnapshot() Snapshot {
	s := make(Snapshot, len(Columns))
	for _, col := range Columns {
		s[col.Key] = []string{}
	}
	return s
}

// SnapshotOf captures the current id ordering of the given per-column lists.
func SnapshotOf(grouped map[string][]Card) Snapshot {
	s := EmptySnapshot()
	for _, col := range Columns {
		for _, c := range grouped[col.Key] {
			s[col.Key] = append(s[col.Key], c.ID)
		}
	}
	return s
}
