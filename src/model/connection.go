package model

import (
	"database/sql"
	"errors"
	"time"
)

var ErrNoConnection = errors.New("no accounting connection configured")

// Connection is one authorized QuickBooks Online company connection. The
// service runs against a single brokerage book, so the most recently updated
// row is the active connection.
type Connection struct {
	RealmID      string    `json:"realm_id"`
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	TokenExpiry  time.Time `json:"token_expiry"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// GetConnection returns the active QuickBooks connection.
func GetConnection(db *sql.DB) (*Connection, error) {
	row := db.QueryRow(`
		SELECT realm_id, access_token, refresh_token, token_expiry, updated_at
		FROM quickbooks_connections
		ORDER BY updated_at DESC
		LIMIT 1`)

	var conn Connection
	err := row.Scan(&conn.RealmID, &conn.AccessToken, &conn.RefreshToken, &conn.TokenExpiry, &conn.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoConnection
	}
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

// SaveConnection inserts or replaces the connection for a realm.
func SaveConnection(db *sql.DB, conn *Connection) error {
	_, err := db.Exec(`
		INSERT INTO quickbooks_connections (realm_id, access_token, refresh_token, token_expiry, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(realm_id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			token_expiry = excluded.token_expiry,
			updated_at = excluded.updated_at`,
		conn.RealmID, conn.AccessToken, conn.RefreshToken, conn.TokenExpiry, time.Now().UTC())
	return err
}

// DeleteConnection removes a realm's stored tokens, disconnecting the book.
func DeleteConnection(db *sql.DB, realmID string) error {
	_, err := db.Exec(`DELETE FROM quickbooks_connections WHERE realm_id = ?`, realmID)
	return err
}
