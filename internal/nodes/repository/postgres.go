package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/owenjoycecoughlan/Offsets/internal/nodes/domain"
)

// NodeRepository provides Postgres persistence for nodes.
type NodeRepository struct {
	db *sql.DB
}

func NewNodeRepository(db *sql.DB) *NodeRepository {
	return &NodeRepository{db: db}
}

const nodeColumns = `id, parent_id, iteration_id, author_name, content, status, created_at, published_at, last_response_at, withered_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNode(row rowScanner) (*domain.Node, error) {
	var (
		n              domain.Node
		parentID       sql.NullString
		publishedAt    sql.NullTime
		lastResponseAt sql.NullTime
		witheredAt     sql.NullTime
		status         string
	)
	err := row.Scan(&n.ID, &parentID, &n.IterationID, &n.AuthorName, &n.Content,
		&status, &n.CreatedAt, &publishedAt, &lastResponseAt, &witheredAt)
	if err != nil {
		return nil, err
	}
	n.Status = domain.Status(status)
	if parentID.Valid {
		n.ParentID = &parentID.String
	}
	if publishedAt.Valid {
		t := publishedAt.Time
		n.PublishedAt = &t
	}
	if lastResponseAt.Valid {
		t := lastResponseAt.Time
		n.LastResponseAt = &t
	}
	if witheredAt.Valid {
		t := witheredAt.Time
		n.WitheredAt = &t
	}
	return &n, nil
}

func scanNodeWithCount(row rowScanner) (*domain.Node, error) {
	var (
		n              domain.Node
		parentID       sql.NullString
		publishedAt    sql.NullTime
		lastResponseAt sql.NullTime
		witheredAt     sql.NullTime
		status         string
	)
	err := row.Scan(&n.ID, &parentID, &n.IterationID, &n.AuthorName, &n.Content,
		&status, &n.CreatedAt, &publishedAt, &lastResponseAt, &witheredAt, &n.ChildCount)
	if err != nil {
		return nil, err
	}
	n.Status = domain.Status(status)
	if parentID.Valid {
		n.ParentID = &parentID.String
	}
	if publishedAt.Valid {
		t := publishedAt.Time
		n.PublishedAt = &t
	}
	if lastResponseAt.Valid {
		t := lastResponseAt.Time
		n.LastResponseAt = &t
	}
	if witheredAt.Valid {
		t := witheredAt.Time
		n.WitheredAt = &t
	}
	return &n, nil
}

// CreateNode inserts a node as submitted; the caller is responsible for
// validation and the parent-is-live check.
func (r *NodeRepository) CreateNode(ctx context.Context, n *domain.Node) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	if n.Status == "" {
		n.Status = domain.StatusPending
	}

	const q = `
INSERT INTO nodes (id, parent_id, iteration_id, author_name, content, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7);
`
	_, err := r.db.ExecContext(ctx, q, n.ID, n.ParentID, n.IterationID,
		n.AuthorName, n.Content, string(n.Status), n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert node: %w", err)
	}
	return nil
}

func (r *NodeRepository) GetNode(ctx context.Context, id string) (*domain.Node, error) {
	q := `SELECT ` + nodeColumns + ` FROM nodes WHERE id = $1;`
	n, err := scanNode(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNodeNotFound
		}
		return nil, err
	}
	return n, nil
}

// LiveNodes returns the iteration's LIVE nodes, newest publication first,
// each carrying its visible-children count.
func (r *NodeRepository) LiveNodes(ctx context.Context, iterationID string) ([]domain.Node, error) {
	const q = `
SELECT n.id, n.parent_id, n.iteration_id, n.author_name, n.content, n.status,
       n.created_at, n.published_at, n.last_response_at, n.withered_at,
       count(c.id) AS child_count
FROM nodes n
LEFT JOIN nodes c ON c.parent_id = n.id AND c.status IN ('LIVE', 'WITHERED')
WHERE n.iteration_id = $1 AND n.status = 'LIVE'
GROUP BY n.id
ORDER BY n.published_at DESC;
`
	return r.queryNodesWithCount(ctx, q, iterationID)
}

// VisibleNodes returns the iteration's LIVE and WITHERED nodes, oldest
// publication first, shaped for tree export.
func (r *NodeRepository) VisibleNodes(ctx context.Context, iterationID string) ([]domain.Node, error) {
	const q = `
SELECT n.id, n.parent_id, n.iteration_id, n.author_name, n.content, n.status,
       n.created_at, n.published_at, n.last_response_at, n.withered_at,
       count(c.id) AS child_count
FROM nodes n
LEFT JOIN nodes c ON c.parent_id = n.id AND c.status IN ('LIVE', 'WITHERED')
WHERE n.iteration_id = $1 AND n.status IN ('LIVE', 'WITHERED')
GROUP BY n.id
ORDER BY n.published_at ASC;
`
	return r.queryNodesWithCount(ctx, q, iterationID)
}

func (r *NodeRepository) queryNodesWithCount(ctx context.Context, q string, args ...any) ([]domain.Node, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Node, 0, 16)
	for rows.Next() {
		n, err := scanNodeWithCount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *n)
	}
	return out, rows.Err()
}

// PendingNodes returns the iteration's moderation queue, oldest submission
// first, each with its parent attached.
func (r *NodeRepository) PendingNodes(ctx context.Context, iterationID string) ([]domain.PendingNode, error) {
	q := `SELECT ` + nodeColumns + ` FROM nodes WHERE iteration_id = $1 AND status = 'PENDING' ORDER BY created_at ASC;`
	rows, err := r.db.QueryContext(ctx, q, iterationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pending := make([]domain.PendingNode, 0, 16)
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		pending = append(pending, domain.PendingNode{Node: *n})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Attach parents; the queue is short so per-parent lookups with a
	// small cache beat a ten-way nullable join.
	parents := make(map[string]*domain.Node)
	for i := range pending {
		pid := pending[i].ParentID
		if pid == nil {
			continue
		}
		if p, ok := parents[*pid]; ok {
			pending[i].Parent = p
			continue
		}
		p, err := r.GetNode(ctx, *pid)
		if err != nil {
			if errors.Is(err, domain.ErrNodeNotFound) {
				continue
			}
			return nil, err
		}
		parents[*pid] = p
		pending[i].Parent = p
	}
	return pending, nil
}

// Children returns the node's publicly visible children, newest publication
// first.
func (r *NodeRepository) Children(ctx context.Context, nodeID string) ([]domain.Node, error) {
	q := `SELECT ` + nodeColumns + ` FROM nodes WHERE parent_id = $1 AND status IN ('LIVE', 'WITHERED') ORDER BY published_at DESC;`
	rows, err := r.db.QueryContext(ctx, q, nodeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Node, 0, 8)
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *n)
	}
	return out, rows.Err()
}

// Approve moves a PENDING node to LIVE and bumps the parent's withering
// clock in the same transaction. The status check and write are a single
// compare-and-swap, so of two concurrent approvals exactly one succeeds.
func (r *NodeRepository) Approve(ctx context.Context, nodeID string, now time.Time) (*domain.Node, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	q := `UPDATE nodes SET status = 'LIVE', published_at = $2 WHERE id = $1 AND status = 'PENDING' RETURNING ` + nodeColumns + `;`
	n, err := scanNode(tx.QueryRowContext(ctx, q, nodeID, now))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, r.transitionConflict(ctx, nodeID)
		}
		return nil, err
	}

	if n.ParentID != nil {
		const bump = `UPDATE nodes SET last_response_at = $2 WHERE id = $1;`
		if _, err := tx.ExecContext(ctx, bump, *n.ParentID, now); err != nil {
			return nil, fmt.Errorf("failed to bump parent response time: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return n, nil
}

// Reject moves a PENDING node to REJECTED. No parent side effects.
func (r *NodeRepository) Reject(ctx context.Context, nodeID string) (*domain.Node, error) {
	q := `UPDATE nodes SET status = 'REJECTED' WHERE id = $1 AND status = 'PENDING' RETURNING ` + nodeColumns + `;`
	n, err := scanNode(r.db.QueryRowContext(ctx, q, nodeID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, r.transitionConflict(ctx, nodeID)
		}
		return nil, err
	}
	return n, nil
}

// transitionConflict distinguishes "node does not exist" from "node exists
// in the wrong status" after a zero-row compare-and-swap.
func (r *NodeRepository) transitionConflict(ctx context.Context, nodeID string) error {
	var status string
	err := r.db.QueryRowContext(ctx, `SELECT status FROM nodes WHERE id = $1;`, nodeID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNodeNotFound
	}
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: node is %s", domain.ErrInvalidState, status)
}

// WitherNodes transitions the given nodes to WITHERED in one batch. The
// status is re-checked at write time so a node approved for a new response
// between the sweep's read and write is left alone.
func (r *NodeRepository) WitherNodes(ctx context.Context, ids []string, now time.Time) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	const q = `
UPDATE nodes SET status = 'WITHERED', withered_at = $1
WHERE id = ANY($2) AND status = 'LIVE';
`
	res, err := r.db.ExecContext(ctx, q, now, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("failed to wither nodes: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

// Search matches content or author name case-insensitively, restricted to
// the given statuses, newest publication first.
func (r *NodeRepository) Search(ctx context.Context, query string, statuses []domain.Status, limit int) ([]domain.Node, error) {
	const q = `
SELECT n.id, n.parent_id, n.iteration_id, n.author_name, n.content, n.status,
       n.created_at, n.published_at, n.last_response_at, n.withered_at,
       count(c.id) AS child_count
FROM nodes n
LEFT JOIN nodes c ON c.parent_id = n.id AND c.status IN ('LIVE', 'WITHERED')
WHERE (n.content ILIKE '%' || $1 || '%' OR n.author_name ILIKE '%' || $1 || '%')
  AND n.status = ANY($2)
GROUP BY n.id
ORDER BY n.published_at DESC NULLS LAST
LIMIT $3;
`
	return r.queryNodesWithCount(ctx, q, query, pq.Array(statusStrings(statuses)), limit)
}

// Stats summarizes one iteration's forest.
func (r *NodeRepository) Stats(ctx context.Context, iterationID string) (*domain.IterationStats, error) {
	stats := &domain.IterationStats{}

	const counts = `
SELECT count(*) FILTER (WHERE status IN ('LIVE', 'WITHERED')),
       count(*) FILTER (WHERE status = 'LIVE'),
       count(*) FILTER (WHERE status = 'WITHERED'),
       count(*) FILTER (WHERE parent_id IS NULL AND status IN ('LIVE', 'WITHERED')),
       count(DISTINCT author_name) FILTER (WHERE status = 'WITHERED')
FROM nodes
WHERE iteration_id = $1;
`
	err := r.db.QueryRowContext(ctx, counts, iterationID).Scan(
		&stats.TotalNodes, &stats.LiveNodes, &stats.WitheredNodes,
		&stats.RootNodes, &stats.DistinctAuthors)
	if err != nil {
		return nil, err
	}

	const depth = `
WITH RECURSIVE node_tree AS (
  SELECT id, parent_id, 1 AS depth
  FROM nodes
  WHERE parent_id IS NULL AND iteration_id = $1
  UNION ALL
  SELECT n.id, n.parent_id, nt.depth + 1
  FROM nodes n
  INNER JOIN node_tree nt ON n.parent_id = nt.id
)
SELECT COALESCE(max(depth), 0) FROM node_tree;
`
	if err := r.db.QueryRowContext(ctx, depth, iterationID).Scan(&stats.DeepestBranch); err != nil {
		return nil, err
	}

	const most = `
SELECT n.id, n.parent_id, n.iteration_id, n.author_name, n.content, n.status,
       n.created_at, n.published_at, n.last_response_at, n.withered_at,
       count(c.id) AS child_count
FROM nodes n
LEFT JOIN nodes c ON c.parent_id = n.id AND c.status IN ('LIVE', 'WITHERED')
WHERE n.iteration_id = $1 AND n.status IN ('LIVE', 'WITHERED')
GROUP BY n.id
ORDER BY child_count DESC
LIMIT 1;
`
	n, err := scanNodeWithCount(r.db.QueryRowContext(ctx, most, iterationID))
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err == nil {
		stats.MostResponded = n
	}
	return stats, nil
}

func statusStrings(statuses []domain.Status) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}
