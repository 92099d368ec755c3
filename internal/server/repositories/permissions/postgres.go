package permissions

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ForUser(ctx context.Context, userID string) ([]string, error) {
	query :=
		`SELECT DISTINCT p.name FROM permissions p
		 JOIN group_permissions gp ON gp.permission_id = p.id
		 JOIN user_groups ug ON ug.group_id = gp.group_id
		 WHERE ug.user_id = $1
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return names, nil
}
