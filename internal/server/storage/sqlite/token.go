package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iudanet/tokenkeeper/internal/models"
	"github.com/iudanet/tokenkeeper/internal/server/storage"
)

// InsertToken stores a new access token and assigns its ID
func (s *Storage) InsertToken(ctx context.Context, token *models.AccessToken) (int64, error) {
	query := `
		INSERT INTO access_tokens (user_id, token, expire_time, create_time, update_time)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		token.UserID,
		token.Token,
		token.ExpireTime.UTC(),
		token.CreateTime.UTC(),
		token.UpdateTime.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert access token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows > 0 {
		id, err := result.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("failed to get inserted id: %w", err)
		}
		token.ID = id
	}

	return rows, nil
}

// UpdateTokenByID overwrites owner, token, expiry and update time of a record
func (s *Storage) UpdateTokenByID(ctx context.Context, token *models.AccessToken) (int64, error) {
	query := `
		UPDATE access_tokens
		SET user_id = ?, token = ?, expire_time = ?, update_time = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		token.UserID,
		token.Token,
		token.ExpireTime.UTC(),
		token.UpdateTime.UTC(),
		token.ID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update access token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows, nil
}

// DeleteTokenByID deletes access token by id
func (s *Storage) DeleteTokenByID(ctx context.Context, id int64) error {
	query := `DELETE FROM access_tokens WHERE id = ?`

	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete access token: %w", err)
	}

	return nil
}

// GetTokenByID retrieves access token by id
func (s *Storage) GetTokenByID(ctx context.Context, id int64) (*models.AccessToken, error) {
	query := `
		SELECT t.id, t.user_id, t.token, t.expire_time, t.create_time, t.update_time, u.user_name
		FROM access_tokens t
		LEFT JOIN users u ON u.id = t.user_id
		WHERE t.id = ?
	`

	token, err := scanToken(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to get access token: %w", err)
	}

	return token, nil
}

// SelectTokenPage returns one page of access tokens and the total count
func (s *Storage) SelectTokenPage(ctx context.Context, q storage.TokenPageQuery) (int64, []*models.AccessToken, error) {
	q = q.Normalize()

	var (
		where strings.Builder
		args  []any
	)
	where.WriteString(" WHERE 1 = 1")
	if q.SearchVal != "" {
		where.WriteString(` AND u.user_name LIKE ? ESCAPE '\'`)
		args = append(args, storage.LikePattern(q.SearchVal))
	}
	if q.UserID != storage.AllUsers {
		where.WriteString(" AND t.user_id = ?")
		args = append(args, q.UserID)
	}

	from := `
		FROM access_tokens t
		LEFT JOIN users u ON u.id = t.user_id` + where.String()

	var total int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*)"+from, args...).Scan(&total); err != nil {
		return 0, nil, fmt.Errorf("failed to count access tokens: %w", err)
	}

	query := `
		SELECT t.id, t.user_id, t.token, t.expire_time, t.create_time, t.update_time, u.user_name` + from + `
		ORDER BY t.update_time DESC, t.id DESC
		LIMIT ? OFFSET ?`

	rows, err := s.db.QueryContext(ctx, query, append(args, q.PageSize, q.Offset())...)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to query access tokens: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	tokens := []*models.AccessToken{}
	for rows.Next() {
		token, err := scanToken(rows)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to scan access token: %w", err)
		}
		tokens = append(tokens, token)
	}

	if err := rows.Err(); err != nil {
		return 0, nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return total, tokens, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanToken(row rowScanner) (*models.AccessToken, error) {
	token := &models.AccessToken{}
	var userName sql.NullString

	if err := row.Scan(
		&token.ID,
		&token.UserID,
		&token.Token,
		&token.ExpireTime,
		&token.CreateTime,
		&token.UpdateTime,
		&userName,
	); err != nil {
		return nil, err
	}

	token.UserName = userName.String
	token.ExpireTime = token.ExpireTime.UTC()
	token.CreateTime = token.CreateTime.UTC()
	token.UpdateTime = token.UpdateTime.UTC()
	return token, nil
}
