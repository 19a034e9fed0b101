package storage

import (
	"context"

	"github.com/iudanet/tokenkeeper/internal/models"
)

// AllUsers is the owner filter value that disables owner scoping in
// SelectTokenPage.
const AllUsers int64 = 0

// TokenPageQuery describes one page of an access token listing.
type TokenPageQuery struct {
	// SearchVal is matched as a case-insensitive substring against the
	// owner's user name.
	// Empty means no filtering.
	SearchVal string
	PageNo    int
	PageSize  int
	// UserID restricts the listing to tokens owned by this user.
	// AllUsers (0) means no owner restriction.
	UserID int64
}

// TokenStorage defines interface for access token persistence
type TokenStorage interface {
	// InsertToken stores a new access token and assigns token.ID.
	// Returns the number of inserted rows.
	InsertToken(ctx context.Context, token *models.AccessToken) (int64, error)

	// UpdateTokenByID overwrites user_id, token, expire_time and update_time
	// of the record with token.ID. create_time is never touched.
	// Returns the number of updated rows; zero means no such record.
	UpdateTokenByID(ctx context.Context, token *models.AccessToken) (int64, error)

	// DeleteTokenByID removes the record with the given id.
	// Deleting a non-existent id is not an error.
	DeleteTokenByID(ctx context.Context, id int64) error

	// GetTokenByID retrieves access token by id
	// Returns ErrTokenNotFound if token doesn't exist
	GetTokenByID(ctx context.Context, id int64) (*models.AccessToken, error)

	// SelectTokenPage returns the total number of matching records and the
	// records of the requested page ordered by update_time desc, id desc.
	// Returned tokens carry the owner's UserName.
	SelectTokenPage(ctx context.Context, q TokenPageQuery) (int64, []*models.AccessToken, error)
}

// DefaultPageSize is used when a query arrives with a non-positive page size.
const DefaultPageSize = 10

// Normalize clamps paging values: pageNo below 1 becomes 1 and a
// non-positive pageSize becomes DefaultPageSize.
func (q TokenPageQuery) Normalize() TokenPageQuery {
	if q.PageNo < 1 {
		q.PageNo = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	return q
}

// Offset returns the number of records preceding the requested page.
func (q TokenPageQuery) Offset() int {
	n := q.Normalize()
	return models.Offset(n.PageNo, n.PageSize)
}
