package storage

import (
	"context"
	"fmt"
	"sync"
)

// ColumnType is a portable column type that each backend maps to SQL.
type ColumnType int

const (
	TypeText ColumnType = iota
	TypeInteger
	TypeBool
	TypeDate
	TypeTimestamp
)

// Column is one column of a snapshot table.
type Column struct {
	Name     string
	Type     ColumnType
	Nullable bool
}

// Table describes a snapshot table.
type Table struct {
	Name    string
	Columns []Column
}

// ColumnNames returns the column names in order.
func (t Table) ColumnNames() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// DDLBuilder renders a statement that creates t when it does not exist.
type DDLBuilder func(t Table) (string, error)

var (
	ddlMu       sync.RWMutex
	ddlBuilders = map[string]DDLBuilder{}
)

// RegisterDDL adds or replaces the DDL builder for kind.
func RegisterDDL(kind string, b DDLBuilder) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	ddlBuilders[kind] = b
}

// EnsureTable creates t through repo unless it already exists.
func EnsureTable(ctx context.Context, kind string, repo Repository, t Table) error {
	ddlMu.RLock()
	b, ok := ddlBuilders[kind]
	ddlMu.RUnlock()
	if !ok {
		return fmt.Errorf("no DDL builder registered for storage.kind=%q", kind)
	}
	stmt, err := b(t)
	if err != nil {
		return fmt.Errorf("build DDL for %s: %w", t.Name, err)
	}
	if err := repo.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("create %s: %w", t.Name, err)
	}
	return nil
}
