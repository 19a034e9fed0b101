package boltdb

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/tokenkeeper/internal/models"
	"github.com/iudanet/tokenkeeper/internal/server/storage"
)

// tokenRecord is the stored form of an access token. The owner name is
// resolved from the users bucket on read.
type tokenRecord struct {
	ExpireTime time.Time `json:"expire_time"`
	CreateTime time.Time `json:"create_time"`
	UpdateTime time.Time `json:"update_time"`
	Token      string    `json:"token"`
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
}

func (r *tokenRecord) toModel(userName string) *models.AccessToken {
	return &models.AccessToken{
		ID:         r.ID,
		UserID:     r.UserID,
		UserName:   userName,
		Token:      r.Token,
		ExpireTime: r.ExpireTime.UTC(),
		CreateTime: r.CreateTime.UTC(),
		UpdateTime: r.UpdateTime.UTC(),
	}
}

func putToken(b *bbolt.Bucket, rec *tokenRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal access token: %w", err)
	}
	if err := b.Put(idKey(rec.ID), data); err != nil {
		return fmt.Errorf("failed to save access token: %w", err)
	}
	return nil
}

func decodeToken(data []byte) (*tokenRecord, error) {
	var rec tokenRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal access token: %w", err)
	}
	return &rec, nil
}

// InsertToken stores a new access token and assigns its ID
func (s *Storage) InsertToken(ctx context.Context, token *models.AccessToken) (int64, error) {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		tokens, err := bucket(tx, bucketTokens)
		if err != nil {
			return err
		}

		seq, err := tokens.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to allocate access token id: %w", err)
		}

		rec := &tokenRecord{
			ID:         int64(seq),
			UserID:     token.UserID,
			Token:      token.Token,
			ExpireTime: token.ExpireTime.UTC(),
			CreateTime: token.CreateTime.UTC(),
			UpdateTime: token.UpdateTime.UTC(),
		}
		if err := putToken(tokens, rec); err != nil {
			return err
		}

		token.ID = rec.ID
		return nil
	})
	if err != nil {
		return 0, err
	}

	return 1, nil
}

// UpdateTokenByID overwrites owner, token, expiry and update time of a record
func (s *Storage) UpdateTokenByID(ctx context.Context, token *models.AccessToken) (int64, error) {
	var rows int64

	err := s.db.Update(func(tx *bbolt.Tx) error {
		tokens, err := bucket(tx, bucketTokens)
		if err != nil {
			return err
		}

		data := tokens.Get(idKey(token.ID))
		if data == nil {
			return nil
		}

		rec, err := decodeToken(data)
		if err != nil {
			return err
		}

		rec.UserID = token.UserID
		rec.Token = token.Token
		rec.ExpireTime = token.ExpireTime.UTC()
		rec.UpdateTime = token.UpdateTime.UTC()

		if err := putToken(tokens, rec); err != nil {
			return err
		}
		rows = 1
		return nil
	})
	if err != nil {
		return 0, err
	}

	return rows, nil
}

// DeleteTokenByID deletes access token by id
func (s *Storage) DeleteTokenByID(ctx context.Context, id int64) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		tokens, err := bucket(tx, bucketTokens)
		if err != nil {
			return err
		}
		if err := tokens.Delete(idKey(id)); err != nil {
			return fmt.Errorf("failed to delete access token: %w", err)
		}
		return nil
	})
}

// GetTokenByID retrieves access token by id
func (s *Storage) GetTokenByID(ctx context.Context, id int64) (*models.AccessToken, error) {
	var token *models.AccessToken

	err := s.db.View(func(tx *bbolt.Tx) error {
		tokens, err := bucket(tx, bucketTokens)
		if err != nil {
			return err
		}

		data := tokens.Get(idKey(id))
		if data == nil {
			return storage.ErrTokenNotFound
		}

		rec, err := decodeToken(data)
		if err != nil {
			return err
		}

		names := newNameResolver(tx)
		name, err := names.lookup(rec.UserID)
		if err != nil {
			return err
		}

		token = rec.toModel(name)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return token, nil
}

// SelectTokenPage scans the whole bucket, so it is meant for small
// single-node deployments.
func (s *Storage) SelectTokenPage(ctx context.Context, q storage.TokenPageQuery) (int64, []*models.AccessToken, error) {
	q = q.Normalize()
	search := strings.ToLower(q.SearchVal)

	var matched []*models.AccessToken

	err := s.db.View(func(tx *bbolt.Tx) error {
		tokens, err := bucket(tx, bucketTokens)
		if err != nil {
			return err
		}
		names := newNameResolver(tx)

		return tokens.ForEach(func(_, v []byte) error {
			rec, err := decodeToken(v)
			if err != nil {
				return err
			}

			// Фильтруем по владельцу и имени пользователя
			if q.UserID != storage.AllUsers && rec.UserID != q.UserID {
				return nil
			}
			name, err := names.lookup(rec.UserID)
			if err != nil {
				return err
			}
			if search != "" && !strings.Contains(strings.ToLower(name), search) {
				return nil
			}

			matched = append(matched, rec.toModel(name))
			return nil
		})
	})
	if err != nil {
		return 0, nil, err
	}

	slices.SortFunc(matched, func(a, b *models.AccessToken) int {
		if c := b.UpdateTime.Compare(a.UpdateTime); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})

	total := int64(len(matched))
	start := min(q.Offset(), len(matched))
	end := min(start+q.PageSize, len(matched))

	page := make([]*models.AccessToken, end-start)
	copy(page, matched[start:end])

	return total, page, nil
}

// nameResolver caches user names within one transaction.
type nameResolver struct {
	tx    *bbolt.Tx
	names map[int64]string
}

func newNameResolver(tx *bbolt.Tx) *nameResolver {
	return &nameResolver{tx: tx, names: make(map[int64]string)}
}

// lookup returns "" for an owner id without a user record.
func (r *nameResolver) lookup(id int64) (string, error) {
	if name, ok := r.names[id]; ok {
		return name, nil
	}

	users, err := bucket(r.tx, bucketUsers)
	if err != nil {
		return "", err
	}

	var name string
	if data := users.Get(idKey(id)); data != nil {
		var rec userRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return "", fmt.Errorf("failed to unmarshal user: %w", err)
		}
		name = rec.Username
	}

	r.names[id] = name
	return name, nil
}
