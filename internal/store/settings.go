package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
)

const signingSecretKey = "jwt_secret"

// GetSigningSecret returns the token signing secret kept in the settings
// table, generating and storing one on first use. The insert is OR IGNORE
// and the value is always read back, so concurrent first starts agree.
func GetSigningSecret(ctx context.Context, db *sql.DB) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating signing secret: %w", err)
	}

	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`,
		signingSecretKey, hex.EncodeToString(buf),
	)
	if err != nil {
		return "", fmt.Errorf("storing signing secret: %w", err)
	}

	var secret string
	err = db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, signingSecretKey,
	).Scan(&secret)
	if err != nil {
		return "", fmt.Errorf("querying signing secret: %w", err)
	}
	return secret, nil
}
