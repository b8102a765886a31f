package domain

import "time"

// DefaultWitherDays is how long a LIVE node may go without an approved
// response before it withers.
const DefaultWitherDays = 3

// Status is the lifecycle state of a node. Transitions are monotonic:
// PENDING -> LIVE -> WITHERED, or PENDING -> REJECTED. REJECTED and
// WITHERED are terminal.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusLive     Status = "LIVE"
	StatusRejected Status = "REJECTED"
	StatusWithered Status = "WITHERED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusLive, StatusRejected, StatusWithered:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusWithered
}

// CanTransitionTo is the single enforcement point for the state machine.
// Every caller that moves a node between states must consult it.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusLive || next == StatusRejected
	case StatusLive:
		return next == StatusWithered
	}
	return false
}

// Node is a single piece of submitted content positioned in the response
// forest. ParentID and IterationID are immutable after creation.
type Node struct {
	ID             string     `json:"id"`
	ParentID       *string    `json:"parent_id"`
	IterationID    string     `json:"iteration_id"`
	AuthorName     string     `json:"author_name"`
	Content        string     `json:"content"`
	Status         Status     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	PublishedAt    *time.Time `json:"published_at"`
	LastResponseAt *time.Time `json:"last_response_at"`
	WitheredAt     *time.Time `json:"withered_at"`

	// ChildCount is populated by list queries that join against children;
	// it is not stored on the node itself.
	ChildCount int `json:"child_count"`
}

// NewNode is the submission payload for creating a node.
type NewNode struct {
	AuthorName  string
	Content     string
	ParentID    *string
	IterationID string
}

// PendingNode is a moderation-queue entry with its parent attached so the
// moderator can see what is being responded to.
type PendingNode struct {
	Node
	Parent *Node `json:"parent"`
}

// NodeContext is a node together with its parent and publicly visible
// children.
type NodeContext struct {
	Node
	Parent   *Node  `json:"parent"`
	Children []Node `json:"children"`
}

// IterationStats summarizes one iteration's forest.
type IterationStats struct {
	TotalNodes      int   `json:"total_nodes"`
	LiveNodes       int   `json:"live_nodes"`
	WitheredNodes   int   `json:"withered_nodes"`
	RootNodes       int   `json:"root_nodes"`
	DistinctAuthors int   `json:"distinct_authors"`
	DeepestBranch   int   `json:"deepest_branch"`
	MostResponded   *Node `json:"most_responded"`
}

// ReferenceTime is the withering clock's reference point: the time of the
// last approved response, or the publish time if no response was ever
// approved. The second return is false for nodes that were never published.
func (n *Node) ReferenceTime() (time.Time, bool) {
	if n.PublishedAt == nil {
		return time.Time{}, false
	}
	if n.LastResponseAt != nil {
		return *n.LastResponseAt, true
	}
	return *n.PublishedAt, true
}

// DaysSinceResponse returns whole elapsed days since the reference time.
func (n *Node) DaysSinceResponse(now time.Time) (int, bool) {
	ref, ok := n.ReferenceTime()
	if !ok {
		return 0, false
	}
	return int(now.Sub(ref).Hours() / 24), true
}

// ShouldWither reports whether a node has gone silent long enough to
// wither. Only LIVE nodes are ever eligible.
func (n *Node) ShouldWither(now time.Time, thresholdDays int) bool {
	if n.Status != StatusLive {
		return false
	}
	days, ok := n.DaysSinceResponse(now)
	return ok && days >= thresholdDays
}

// VisibleStatuses are the statuses shown to end users; pending and
// rejected nodes never leave the moderation queue.
func VisibleStatuses() []Status {
	return []Status{StatusLive, StatusWithered}
}
