package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/tokenkeeper/internal/models"
	"github.com/iudanet/tokenkeeper/internal/server/storage"
)

// userRecord is the stored form of models.User, which hides the hash from JSON.
type userRecord struct {
	CreatedAt    time.Time   `json:"create_time"`
	UpdatedAt    time.Time   `json:"update_time"`
	Username     string      `json:"user_name"`
	PasswordHash string      `json:"user_password"`
	ID           int64       `json:"id"`
	Role         models.Role `json:"user_type"`
}

func (r *userRecord) toModel() *models.User {
	return &models.User{
		ID:           r.ID,
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		Role:         r.Role,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
}

// CreateUser creates a new user and assigns its ID
func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		users, err := bucket(tx, bucketUsers)
		if err != nil {
			return err
		}
		byName, err := bucket(tx, bucketUsersByName)
		if err != nil {
			return err
		}

		if byName.Get([]byte(user.Username)) != nil {
			return storage.ErrUserAlreadyExists
		}

		seq, err := users.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to allocate user id: %w", err)
		}
		id := int64(seq)

		data, err := json.Marshal(&userRecord{
			ID:           id,
			Username:     user.Username,
			PasswordHash: user.PasswordHash,
			Role:         user.Role,
			CreatedAt:    user.CreatedAt.UTC(),
			UpdatedAt:    user.UpdatedAt.UTC(),
		})
		if err != nil {
			return fmt.Errorf("failed to marshal user: %w", err)
		}

		if err := users.Put(idKey(id), data); err != nil {
			return fmt.Errorf("failed to save user: %w", err)
		}
		if err := byName.Put([]byte(user.Username), idKey(id)); err != nil {
			return fmt.Errorf("failed to index user: %w", err)
		}

		user.ID = id
		return nil
	})
}

// GetUserByUsername retrieves user by username
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user *models.User

	err := s.db.View(func(tx *bbolt.Tx) error {
		byName, err := bucket(tx, bucketUsersByName)
		if err != nil {
			return err
		}

		key := byName.Get([]byte(username))
		if key == nil {
			return storage.ErrUserNotFound
		}

		user, err = loadUser(tx, keyID(key))
		return err
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// GetUserByID retrieves user by ID
func (s *Storage) GetUserByID(ctx context.Context, userID int64) (*models.User, error) {
	var user *models.User

	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		user, err = loadUser(tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

func loadUser(tx *bbolt.Tx, id int64) (*models.User, error) {
	users, err := bucket(tx, bucketUsers)
	if err != nil {
		return nil, err
	}

	data := users.Get(idKey(id))
	if data == nil {
		return nil, storage.ErrUserNotFound
	}

	var rec userRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	return rec.toModel(), nil
}
