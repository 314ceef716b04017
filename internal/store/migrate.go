package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table names.
const (
	tableRequestEvents = "request_events"
	tableClientEvents  = "client_events"
	tableSessionEvents = "session_events"
	tableCredentials   = "credentials"
)

var (
	requestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "timestamp", Type: field.TypeInt64},
		{Name: "request_id", Type: field.TypeString},
		{Name: "method", Type: field.TypeString},
		{Name: "path", Type: field.TypeString},
		{Name: "status", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "attempt", Type: field.TypeInt, Default: 1},
		{Name: "success", Type: field.TypeInt, Default: 0},
		{Name: "error_message", Type: field.TypeString, Default: ""},
	}
	requestEventsTable = &schema.Table{
		Name:       tableRequestEvents,
		Columns:    requestEventsColumns,
		PrimaryKey: []*schema.Column{requestEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "request_events_timestamp", Columns: []*schema.Column{requestEventsColumns[1]}},
		},
	}

	clientEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "timestamp", Type: field.TypeInt64},
		{Name: "kind", Type: field.TypeString},
		{Name: "screen", Type: field.TypeString, Default: ""},
		{Name: "message", Type: field.TypeString},
	}
	clientEventsTable = &schema.Table{
		Name:       tableClientEvents,
		Columns:    clientEventsColumns,
		PrimaryKey: []*schema.Column{clientEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "client_events_kind", Columns: []*schema.Column{clientEventsColumns[2]}},
		},
	}

	sessionEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "timestamp", Type: field.TypeInt64},
		{Name: "session_id", Type: field.TypeString},
		{Name: "test_id", Type: field.TypeString},
		{Name: "action", Type: field.TypeString},
		{Name: "question_id", Type: field.TypeString, Default: ""},
		{Name: "selected", Type: field.TypeInt, Default: 0},
		{Name: "answered", Type: field.TypeInt, Default: 0},
		{Name: "score", Type: field.TypeFloat64, Default: 0},
	}
	sessionEventsTable = &schema.Table{
		Name:       tableSessionEvents,
		Columns:    sessionEventsColumns,
		PrimaryKey: []*schema.Column{sessionEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "session_events_session_id", Columns: []*schema.Column{sessionEventsColumns[2]}},
		},
	}

	// credentials holds at most one row, always with id 1.
	credentialsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "token", Type: field.TypeString},
		{Name: "email", Type: field.TypeString},
		{Name: "is_admin", Type: field.TypeInt, Default: 0},
		{Name: "server_url", Type: field.TypeString},
		{Name: "saved_at", Type: field.TypeInt64},
	}
	credentialsTable = &schema.Table{
		Name:       tableCredentials,
		Columns:    credentialsColumns,
		PrimaryKey: []*schema.Column{credentialsColumns[0]},
	}

	// tables lists every table the repositories need.
	tables = []*schema.Table{
		requestEventsTable,
		clientEventsTable,
		sessionEventsTable,
		credentialsTable,
	}
)

// migrate creates missing tables and indexes through ent's migration engine.
func migrate(ctx context.Context, drv *entsql.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := m.Create(ctx, tables...); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}
