package store

// PointsEntry is one ledger row. Entries keep the order in which user IDs
// first earned points; leaderboard ties resolve in that order.
type PointsEntry struct {
	UserID string
	Points int
}

// ModeratorStore is the duty allow-list. Every mutation is persisted
// wholesale before it returns; a missing backing file loads as empty.
type ModeratorStore interface {
	Contains(userID string) bool
	List() []string
	Add(userID string) (added bool, err error)
	Remove(userID string) (removed bool, err error)
}

// PointsStore is the reward-points ledger keyed by user ID.
type PointsStore interface {
	Get(userID string) int
	Add(userID string, delta int) (newTotal int, err error)
	ResetAll() (cleared int, err error)
	Entries() []PointsEntry
}
