// Aerowatch - Air Quality and Health Monitoring Backend
// Copyright 2026 Aerowatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aerowatch/aerowatch

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aerowatch/aerowatch/internal/models"
)

// CreateUser inserts a new account row. The caller supplies the ID when the
// account originates from the external auth provider; an empty ID gets a
// fresh UUID.
func (db *DB) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, name, email, email_verified, role, image, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Name, user.Email, user.EmailVerified, user.Role,
		nullableString(user.Image), user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUser returns a user by ID including their medical profile and disease
// history, if present.
func (db *DB) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := db.scanUser(db.conn.QueryRowContext(ctx,
		`SELECT id, name, email, email_verified, role, image, created_at
		 FROM users WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	if err := db.attachProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByEmail returns a user by email including profile and diseases.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := db.scanUser(db.conn.QueryRowContext(ctx,
		`SELECT id, name, email, email_verified, role, image, created_at
		 FROM users WHERE email = ?`, email))
	if err != nil {
		return nil, err
	}
	if err := db.attachProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListNonAdminUsers returns every account that is not an administrator,
// newest first. Used by the admin account review screen.
func (db *DB) ListNonAdminUsers(ctx context.Context) ([]*models.User, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, email, email_verified, role, image, created_at
		 FROM users WHERE role <> ? ORDER BY created_at DESC`, models.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer closeQuietly(rows)

	var users []*models.User
	for rows.Next() {
		user, err := db.scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	for _, user := range users {
		if err := db.attachProfile(ctx, user); err != nil {
			return nil, err
		}
	}
	return users, nil
}

// UpdateUserImage stores a new profile picture URL for the user.
func (db *DB) UpdateUserImage(ctx context.Context, userID, image string) error {
	return db.execOne(ctx, `UPDATE users SET image = ? WHERE id = ?`, image, userID)
}

// VerifyUser marks the account's email as verified.
func (db *DB) VerifyUser(ctx context.Context, userID string) error {
	return db.execOne(ctx, `UPDATE users SET email_verified = TRUE WHERE id = ?`, userID)
}

// SetUserRole updates the account role.
func (db *DB) SetUserRole(ctx context.Context, userID, role string) error {
	return db.execOne(ctx, `UPDATE users SET role = ? WHERE id = ?`, role, userID)
}

// UpsertUserInfo writes the user's medical profile, replacing any existing
// row. The profile shares the user's ID.
func (db *DB) UpsertUserInfo(ctx context.Context, userID string, info *models.UserInfo) error {
	info.ID = userID
	_, err := db.conn.ExecContext(ctx,
		`INSERT OR REPLACE INTO user_info (id, date_of_birth, district, height, phone_number)
		 VALUES (?, ?, ?, ?, ?)`,
		info.ID, info.DateOfBirth, info.District, info.Height, info.PhoneNumber)
	if err != nil {
		return fmt.Errorf("failed to upsert user info: %w", err)
	}
	return nil
}

// ReplaceDiseases overwrites the user's disease history with the given list.
func (db *DB) ReplaceDiseases(ctx context.Context, userID string, names []string) error {
	if _, err := db.conn.ExecContext(ctx,
		`DELETE FROM diseases WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear diseases: %w", err)
	}
	for _, name := range names {
		if _, err := db.conn.ExecContext(ctx,
			`INSERT INTO diseases (id, user_id, name) VALUES (?, ?, ?)`,
			uuid.NewString(), userID, name); err != nil {
			return fmt.Errorf("failed to insert disease: %w", err)
		}
	}
	return nil
}

// attachProfile loads the optional medical profile and disease list onto the
// user.
func (db *DB) attachProfile(ctx context.Context, user *models.User) error {
	info := &models.UserInfo{}
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, date_of_birth, district, height, phone_number
		 FROM user_info WHERE id = ?`, user.ID).
		Scan(&info.ID, &info.DateOfBirth, &info.District, &info.Height, &info.PhoneNumber)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// No profile yet.
	case err != nil:
		return fmt.Errorf("failed to load user info: %w", err)
	default:
		user.Info = info
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, name FROM diseases WHERE user_id = ? ORDER BY name`, user.ID)
	if err != nil {
		return fmt.Errorf("failed to load diseases: %w", err)
	}
	defer closeQuietly(rows)

	for rows.Next() {
		var d models.Disease
		if err := rows.Scan(&d.ID, &d.UserID, &d.Name); err != nil {
			return fmt.Errorf("failed to scan disease: %w", err)
		}
		user.Diseases = append(user.Diseases, d)
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (db *DB) scanUser(row rowScanner) (*models.User, error) {
	user := &models.User{}
	var image sql.NullString
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.EmailVerified,
		&user.Role, &image, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	user.Image = image.String
	return user, nil
}

// execOne runs a statement that is expected to affect exactly one row and
// maps a zero-row result to ErrNotFound.
func (db *DB) execOne(ctx context.Context, query string, args ...any) error {
	res, err := db.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to execute update: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
