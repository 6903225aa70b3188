package database

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/rentgrid/car-rental-backend/internal/models"
)

// RefreshTokenRepository handles refresh token database operations.
// Tokens are stored hashed; the plaintext never touches the database.
type RefreshTokenRepository struct {
	db DB
}

// NewRefreshTokenRepository creates a new RefreshTokenRepository
func NewRefreshTokenRepository(db DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// Store persists a refresh token with the device info and client IP it was
// issued to
func (r *RefreshTokenRepository) Store(userID, token, deviceInfo, ipAddress string, expiresAt time.Time) error {
	var deviceVal, ipVal interface{}
	if deviceInfo != "" {
		deviceVal = deviceInfo
	}
	if ipAddress != "" {
		ipVal = ipAddress
	}

	_, err := r.db.Exec(`
		INSERT INTO refresh_tokens (user_id, token_hash, device_info, ip_address, expires_at)
		VALUES ($1, $2, $3, $4, $5)
	`, userID, hashToken(token), deviceVal, ipVal, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

// Get retrieves a refresh token record by its plaintext token
func (r *RefreshTokenRepository) Get(token string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	err := r.db.Get(&rt, `
		SELECT id, user_id, token_hash, device_info, ip_address, expires_at, revoked, revoked_at, created_at
		FROM refresh_tokens
		WHERE token_hash = $1
	`, hashToken(token))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("refresh token: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}
	return &rt, nil
}

// Revoke marks a refresh token as revoked
func (r *RefreshTokenRepository) Revoke(token string) error {
	result, err := r.db.Exec(`
		UPDATE refresh_tokens
		SET revoked = TRUE, revoked_at = NOW()
		WHERE token_hash = $1 AND NOT revoked
	`, hashToken(token))
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("refresh token: %w", models.ErrNotFound)
	}
	return nil
}

// DeleteExpired removes expired tokens and revoked tokens older than the
// given age. Run periodically by the cron service.
func (r *RefreshTokenRepository) DeleteExpired(revokedOlderThan time.Duration) (int64, error) {
	result, err := r.db.Exec(`
		DELETE FROM refresh_tokens
		WHERE expires_at < NOW()
		   OR (revoked AND revoked_at < NOW() - $1::interval)
	`, fmt.Sprintf("%d seconds", int(revokedOlderThan.Seconds())))
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired refresh tokens: %w", err)
	}
	return result.RowsAffected()
}
