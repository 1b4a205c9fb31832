package db

import "context"

const getSetting = `
SELECT key, value, updated_at
FROM settings
WHERE key = $1
`

// GetSetting returns the settings row for key, or sql.ErrNoRows when the ERP
// has never persisted a value for it. Callers fall back to static config.
func (q *Queries) GetSetting(ctx context.Context, key string) (Setting, error) {
	row := q.db.QueryRowContext(ctx, getSetting, key)
	var s Setting
	err := row.Scan(&s.Key, &s.Value, &s.UpdatedAt)
	return s, err
}
