// AngelaMos | 2026
// comment.go

package comment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/condoview/api/internal/core"
	"github.com/condoview/api/internal/role"
)

// Kind selects which collection a comment thread hangs off.
type Kind string

const (
	KindAnnouncement Kind = "announcement"
	KindOccurrence   Kind = "occurrence"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindAnnouncement, KindOccurrence:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown comment kind %q: %w", s, core.ErrInvalidInput)
}

func (k Kind) table() string {
	if k == KindOccurrence {
		return "occurrence_comments"
	}
	return "announcement_comments"
}

func (k Kind) parentColumn() string {
	if k == KindOccurrence {
		return "occurrence_id"
	}
	return "announcement_id"
}

type Comment struct {
	ID         string    `db:"id"          json:"id"`
	ParentID   string    `db:"parent_id"   json:"parent_id"`
	AuthorID   string    `db:"author_id"   json:"author_id"`
	AuthorName string    `db:"author_name" json:"author_name"`
	Body       string    `db:"body"        json:"body"`
	CreatedAt  time.Time `db:"created_at"  json:"created_at"`

	// BadgeRole is the author's highest held role, resolved at read time from
	// their assignment set. Their selected role preference does not apply.
	BadgeRole string `json:"badge_role"`
}

type Repository interface {
	List(ctx context.Context, kind Kind, parentID string) ([]Comment, error)
	Create(ctx context.Context, kind Kind, c *Comment) error
	RolesForUsers(
		ctx context.Context,
		userIDs []string,
	) (map[string][]string, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) List(
	ctx context.Context,
	kind Kind,
	parentID string,
) ([]Comment, error) {
	query := fmt.Sprintf(`
		SELECT c.id, c.%s AS parent_id, c.author_id, c.body, c.created_at,
			COALESCE(p.full_name, u.name) AS author_name
		FROM %s c
		JOIN users u ON u.id = c.author_id
		LEFT JOIN profiles p ON p.id = c.author_id
		WHERE c.%s = $1
		ORDER BY c.created_at ASC`,
		kind.parentColumn(), kind.table(), kind.parentColumn(),
	)

	var out []Comment
	if err := r.db.SelectContext(ctx, &out, query, parentID); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	return out, nil
}

func (r *repository) Create(ctx context.Context, kind Kind, c *Comment) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, %s, author_id, body)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		kind.table(), kind.parentColumn(),
	)

	err := r.db.GetContext(ctx, &c.CreatedAt, query,
		c.ID, c.ParentID, c.AuthorID, c.Body,
	)
	if err != nil {
		return fmt.Errorf("create comment: %w", err)
	}

	return nil
}

func (r *repository) RolesForUsers(
	ctx context.Context,
	userIDs []string,
) (map[string][]string, error) {
	if len(userIDs) == 0 {
		return map[string][]string{}, nil
	}

	query, args, err := sqlx.In(
		`SELECT user_id, role FROM user_roles WHERE user_id IN (?)`,
		userIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("roles for users: %w", err)
	}

	var rows []struct {
		UserID string `db:"user_id"`
		Role   string `db:"role"`
	}
	err = r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("roles for users: %w", err)
	}

	out := make(map[string][]string, len(userIDs))
	for _, row := range rows {
		out[row.UserID] = append(out[row.UserID], row.Role)
	}

	return out, nil
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(
	ctx context.Context,
	kind Kind,
	parentID string,
) ([]Comment, error) {
	comments, err := s.repo.List(ctx, kind, parentID)
	if err != nil {
		return nil, err
	}

	return s.withBadges(ctx, comments)
}

// Post appends a comment and returns the refreshed thread, so the caller
// always renders the authoritative state rather than a local merge.
func (s *Service) Post(
	ctx context.Context,
	kind Kind,
	parentID, authorID, body string,
) ([]Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("comment body is empty: %w", core.ErrInvalidInput)
	}

	c := &Comment{
		ID:       uuid.New().String(),
		ParentID: parentID,
		AuthorID: authorID,
		Body:     body,
	}

	if err := s.repo.Create(ctx, kind, c); err != nil {
		return nil, err
	}

	return s.List(ctx, kind, parentID)
}

func (s *Service) withBadges(
	ctx context.Context,
	comments []Comment,
) ([]Comment, error) {
	seen := make(map[string]struct{}, len(comments))
	authorIDs := make([]string, 0, len(comments))
	for _, c := range comments {
		if _, ok := seen[c.AuthorID]; !ok {
			seen[c.AuthorID] = struct{}{}
			authorIDs = append(authorIDs, c.AuthorID)
		}
	}

	rolesByAuthor, err := s.repo.RolesForUsers(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	for i := range comments {
		badge := role.Highest(rolesByAuthor[comments[i].AuthorID])
		if badge == "" {
			badge = role.Resident
		}
		comments[i].BadgeRole = badge
	}

	return comments, nil
}
