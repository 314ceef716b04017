package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// credentialRepo implements CredentialRepo as a single-row table.
type credentialRepo struct {
	drv *entsql.Driver
}

func (r *credentialRepo) Save(ctx context.Context, creds Credentials) error {
	savedAt := creds.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now()
	}

	tx, err := r.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	del, delArgs := builder().Delete(tableCredentials).Query()
	if err := tx.Exec(ctx, del, delArgs, nil); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear credentials: %w", err)
	}

	ins, insArgs := builder().Insert(tableCredentials).
		Columns("id", "token", "email", "is_admin", "server_url", "saved_at").
		Values(1, creds.Token, creds.Email, boolInt(creds.IsAdmin), creds.ServerURL, savedAt.UnixMilli()).
		Query()
	if err := tx.Exec(ctx, ins, insArgs, nil); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("save credentials: %w", err)
	}

	return tx.Commit()
}

func (r *credentialRepo) Load(ctx context.Context) (*Credentials, error) {
	b := builder()
	query, args := b.Select("token", "email", "is_admin", "server_url", "saved_at").
		From(b.Table(tableCredentials)).
		Where(entsql.EQ("id", 1)).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query credentials: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	var creds Credentials
	var isAdmin int
	var savedAt int64
	if err := rows.Scan(&creds.Token, &creds.Email, &isAdmin, &creds.ServerURL, &savedAt); err != nil {
		return nil, fmt.Errorf("scan credentials: %w", err)
	}
	creds.IsAdmin = isAdmin != 0
	creds.SavedAt = time.UnixMilli(savedAt)
	return &creds, nil
}

func (r *credentialRepo) Clear(ctx context.Context) error {
	query, args := builder().Delete(tableCredentials).Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}
