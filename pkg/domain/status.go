// Package domain holds the settlement model shared by the relay and its
// record store: transaction statuses, the allowed transitions between
// them, and the sentinel errors the rest of the system matches on.
package domain

// Status is the settlement state of a transaction record.
type Status string

const (
	StatusPending  Status = "pending"
	StatusEscrow   Status = "escrow"
	StatusReleased Status = "released"
	StatusFailed   Status = "failed"
)

// CanTransition reports whether a record may move from one status to
// another. Transitions are one-directional; nothing moves back to
// pending, and released/failed are terminal.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusEscrow || to == StatusReleased || to == StatusFailed
	case StatusEscrow:
		return to == StatusReleased || to == StatusFailed
	default:
		return false
	}
}
