package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/asakaida/groupperm/internal/entities"
	"github.com/asakaida/groupperm/internal/repositories"
)

// Column lists are derived from the permission table so encode, decode and SQL share one order.
var (
	permColumns = strings.Join(entities.PermissionColumns(), ", ")

	selectGroupQuery = fmt.Sprintf(`
		SELECT %s
		FROM "group"
		WHERE name = $1
	`, permColumns)

	listGroupsQuery = fmt.Sprintf(`
		SELECT name, %s
		FROM "group"
		ORDER BY name COLLATE "C"
	`, permColumns)

	insertGroupQuery = fmt.Sprintf(`
		INSERT INTO "group" (name, %s)
		VALUES (%s)
	`, permColumns, placeholders(entities.NumPermissions+1))

	upsertGroupQuery = insertGroupQuery + `
		ON CONFLICT (name) DO UPDATE SET
		` + excludedAssignments()

	deleteGroupQuery = `DELETE FROM "group" WHERE name = $1`
)

// PostgresGroupRepository implements GroupRepository using PostgreSQL
type PostgresGroupRepository struct {
	db *sql.DB
}

// NewPostgresGroupRepository creates a new PostgreSQL group repository
func NewPostgresGroupRepository(db *sql.DB) repositories.GroupRepository {
	return &PostgresGroupRepository{db: db}
}

// Get retrieves a group by name
func (r *PostgresGroupRepository) Get(ctx context.Context, name string) (*entities.Group, error) {
	var columns [entities.NumPermissions]bool
	err := r.db.QueryRowContext(ctx, selectGroupQuery, name).Scan(columnDest(&columns)...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrapError("get group", err)
	}

	return &entities.Group{
		Name:        name,
		Permissions: entities.PermissionSetFromColumns(columns),
	}, nil
}

// Save inserts a group, replacing the permissions of an existing row when upsert is set
func (r *PostgresGroupRepository) Save(ctx context.Context, group *entities.Group, upsert bool) error {
	if err := group.Validate(); err != nil {
		return fmt.Errorf("%w: %w", repositories.ErrInvalidGroup, err)
	}

	query := insertGroupQuery
	if upsert {
		query = upsertGroupQuery
	}

	columns := group.Permissions.Columns()
	args := make([]interface{}, 0, len(columns)+1)
	args = append(args, group.Name)
	for _, granted := range columns {
		args = append(args, granted)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return wrapError("save group", err)
	}

	return nil
}

// Delete removes a group by name
func (r *PostgresGroupRepository) Delete(ctx context.Context, name string) (bool, error) {
	result, err := r.db.ExecContext(ctx, deleteGroupQuery, name)
	if err != nil {
		return false, wrapError("delete group", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, wrapError("get rows affected", err)
	}

	return rowsAffected > 0, nil
}

// List retrieves all groups ordered by name
func (r *PostgresGroupRepository) List(ctx context.Context) ([]*entities.Group, error) {
	rows, err := r.db.QueryContext(ctx, listGroupsQuery)
	if err != nil {
		return nil, wrapError("list groups", err)
	}
	defer rows.Close()

	var groups []*entities.Group
	for rows.Next() {
		var name string
		var columns [entities.NumPermissions]bool
		dest := append([]interface{}{&name}, columnDest(&columns)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, wrapError("scan group", err)
		}
		groups = append(groups, &entities.Group{
			Name:        name,
			Permissions: entities.PermissionSetFromColumns(columns),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, wrapError("iterate groups", err)
	}

	return groups, nil
}

// columnDest returns scan destinations for the permission columns
func columnDest(columns *[entities.NumPermissions]bool) []interface{} {
	dest := make([]interface{}, len(columns))
	for i := range columns {
		dest[i] = &columns[i]
	}
	return dest
}

// placeholders returns "$1, $2, ..., $n"
func placeholders(n int) string {
	ph := make([]string, n)
	for i := range ph {
		ph[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(ph, ", ")
}

// excludedAssignments overwrites every permission column, so an upsert never merges
func excludedAssignments() string {
	columns := entities.PermissionColumns()
	assignments := make([]string, len(columns))
	for i, column := range columns {
		assignments[i] = fmt.Sprintf("%s = EXCLUDED.%s", column, column)
	}
	return strings.Join(assignments, ",\n\t\t")
}
