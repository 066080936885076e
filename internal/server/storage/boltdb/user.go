package boltdb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/rizquez/usersvc/internal/models"
	"github.com/rizquez/usersvc/internal/server/storage"
)

// userRecord is the persisted form. models.User hides the password hash
// from JSON, so storage needs its own marshalling type.
type userRecord struct {
	ID           int64     `json:"id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toRecord(user *models.User) *userRecord {
	return &userRecord{
		ID:           user.ID,
		FullName:     user.FullName,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

func (r *userRecord) toUser() *models.User {
	return &models.User{
		ID:           r.ID,
		FullName:     r.FullName,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// Create inserts a new user, assigning the id from the bucket sequence.
func (s *Storage) Create(ctx context.Context, user *models.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	return s.db.Update(func(tx *bbolt.Tx) error {
		users := tx.Bucket(bucketUsers)
		emails := tx.Bucket(bucketEmailIndex)

		if emails.Get([]byte(user.Email)) != nil {
			return storage.ErrEmailTaken
		}

		seq, err := users.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to get next sequence: %w", err)
		}
		user.ID = int64(seq)

		data, err := json.Marshal(toRecord(user))
		if err != nil {
			return fmt.Errorf("failed to marshal user: %w", err)
		}

		if err := users.Put(itob(user.ID), data); err != nil {
			return fmt.Errorf("failed to save user: %w", err)
		}

		if err := emails.Put([]byte(user.Email), itob(user.ID)); err != nil {
			return fmt.Errorf("failed to save email index: %w", err)
		}

		return nil
	})
}

// GetByID retrieves a user by id.
func (s *Storage) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user *models.User

	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		user, err = getUser(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// GetByEmail retrieves a user via the email index.
func (s *Storage) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user *models.User

	err := s.db.View(func(tx *bbolt.Tx) error {
		idKey := tx.Bucket(bucketEmailIndex).Get([]byte(email))
		if idKey == nil {
			return storage.ErrUserNotFound
		}

		var err error
		user, err = getUser(tx, int64(binary.BigEndian.Uint64(idKey)))
		return err
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// List returns all users ordered by id.
func (s *Storage) List(ctx context.Context) ([]*models.User, error) {
	var users []*models.User

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketUsers).ForEach(func(k, v []byte) error {
			record := &userRecord{}
			if err := json.Unmarshal(v, record); err != nil {
				return fmt.Errorf("failed to unmarshal user: %w", err)
			}
			users = append(users, record.toUser())
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return users, nil
}

// Update rewrites the stored record and keeps the email index in sync.
func (s *Storage) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()

	return s.db.Update(func(tx *bbolt.Tx) error {
		users := tx.Bucket(bucketUsers)
		emails := tx.Bucket(bucketEmailIndex)

		old, err := getUser(tx, user.ID)
		if err != nil {
			return err
		}

		if old.Email != user.Email {
			if emails.Get([]byte(user.Email)) != nil {
				return storage.ErrEmailTaken
			}
			if err := emails.Delete([]byte(old.Email)); err != nil {
				return fmt.Errorf("failed to delete email index: %w", err)
			}
			if err := emails.Put([]byte(user.Email), itob(user.ID)); err != nil {
				return fmt.Errorf("failed to save email index: %w", err)
			}
		}

		user.CreatedAt = old.CreatedAt

		data, err := json.Marshal(toRecord(user))
		if err != nil {
			return fmt.Errorf("failed to marshal user: %w", err)
		}

		if err := users.Put(itob(user.ID), data); err != nil {
			return fmt.Errorf("failed to save user: %w", err)
		}

		return nil
	})
}

// Delete removes a user and its email index entry.
func (s *Storage) Delete(ctx context.Context, id int64) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		users := tx.Bucket(bucketUsers)
		emails := tx.Bucket(bucketEmailIndex)

		user, err := getUser(tx, id)
		if err != nil {
			return err
		}

		if err := users.Delete(itob(id)); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}

		if err := emails.Delete([]byte(user.Email)); err != nil {
			return fmt.Errorf("failed to delete email index: %w", err)
		}

		return nil
	})
}

func getUser(tx *bbolt.Tx, id int64) (*models.User, error) {
	data := tx.Bucket(bucketUsers).Get(itob(id))
	if data == nil {
		return nil, storage.ErrUserNotFound
	}

	record := &userRecord{}
	if err := json.Unmarshal(data, record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	return record.toUser(), nil
}
