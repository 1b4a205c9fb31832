package db

import "context"

const listActiveUserEmails = `
SELECT email
FROM users
WHERE is_active = TRUE AND email <> ''
ORDER BY created_at
`

// ListActiveUserEmails returns the broadcast recipient list: every active
// user with a non-empty address, oldest account first.
func (q *Queries) ListActiveUserEmails(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listActiveUserEmails)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}
