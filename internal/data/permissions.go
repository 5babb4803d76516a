package data

import (
	"database/sql"

	"github.com/lib/pq"
)

// Permission codes gating the mutating book routes. Creating a book only
// requires being logged in; changing and deleting require these.
const (
	PermissionChangeBook = "books:change"
	PermissionDeleteBook = "books:delete"
)

// Permissions holds the permission codes granted to a single user.
type Permissions []string

// Include reports whether the given code is in the list.
func (p Permissions) Include(code string) bool {
	for _, c := range p {
		if c == code {
			return true
		}
	}
	return false
}

// PermissionModel wraps a *sql.DB connection and provides permission
// lookups and grants.
type PermissionModel struct {
	DB *sql.DB // Shared database connection pool
}

// GetAllForUser returns every permission code granted to a user.
func (m PermissionModel) GetAllForUser(userID int64) (Permissions, error) {
	query := `
		SELECT p.code
		FROM permissions p
		INNER JOIN users_permissions up ON up.permission_id = p.id
		WHERE up.user_id = $1
		ORDER BY p.code`

	rows, err := m.DB.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	permissions := Permissions{}
	for rows.Next() {
		var code string
		err := rows.Scan(&code)
		if err != nil {
			return nil, err
		}
		permissions = append(permissions, code)
	}

	return permissions, rows.Err()
}

// AddForUser grants the given permission codes to a user. Codes the user
// already holds are skipped by the ON CONFLICT clause.
func (m PermissionModel) AddForUser(userID int64, codes ...string) error {
	query := `
		INSERT INTO users_permissions (user_id, permission_id)
		SELECT $1, p.id FROM permissions p WHERE p.code = ANY($2)
		ON CONFLICT DO NOTHING`

	_, err := m.DB.Exec(query, userID, pq.Array(codes))
	return err
}
