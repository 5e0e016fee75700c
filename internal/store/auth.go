package store

import (
	"context"
	"fmt"
	"time"

	"festops/internal/domain"
)

// CreateUser inserts an operator account.
func (s *Postgres) CreateUser(ctx context.Context, u domain.User) error {
	_, err := s.Db.Exec(ctx,
		"INSERT INTO users (id, name, email, password_hash, created_at) VALUES ($1, $2, $3, $4, $5)",
		u.ID, u.Name, u.Email, u.PasswordHash, u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("user insert failed: %w", err)
	}
	return nil
}

// GetUserByEmail looks an operator up for login.
func (s *Postgres) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := s.Db.QueryRow(ctx,
		"SELECT id, name, email, password_hash, created_at FROM users WHERE email = $1", email).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return &u, nil
}

// GetUser retrieves an operator by ID.
func (s *Postgres) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := s.Db.QueryRow(ctx,
		"SELECT id, name, email, password_hash, created_at FROM users WHERE id = $1", id).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return &u, nil
}

// CreateSession records a login session.
func (s *Postgres) CreateSession(ctx context.Context, sess domain.Session) error {
	_, err := s.Db.Exec(ctx,
		"INSERT INTO sessions (token, user_id, expires_at, created_at) VALUES ($1, $2, $3, $4)",
		sess.Token, sess.UserID, sess.ExpiresAt, sess.CreatedAt)
	if err != nil {
		return fmt.Errorf("session insert failed: %w", err)
	}
	return nil
}

// GetSession resolves a cookie token; expired sessions are deleted on read.
func (s *Postgres) GetSession(ctx context.Context, token string) (*domain.Session, error) {
	var sess domain.Session
	err := s.Db.QueryRow(ctx,
		"SELECT token, user_id, expires_at, created_at FROM sessions WHERE token = $1", token).
		Scan(&sess.Token, &sess.UserID, &sess.ExpiresAt, &sess.CreatedAt)
	if err != nil {
		return nil, mapNoRows(err)
	}
	if time.Now().After(sess.ExpiresAt) {
		_, _ = s.Db.Exec(ctx, "DELETE FROM sessions WHERE token = $1", token)
		return nil, ErrSessionExpired
	}
	return &sess, nil
}

// DeleteSession logs a session out.
func (s *Postgres) DeleteSession(ctx context.Context, token string) error {
	_, err := s.Db.Exec(ctx, "DELETE FROM sessions WHERE token = $1", token)
	if err != nil {
		return fmt.Errorf("session delete failed: %w", err)
	}
	return nil
}
