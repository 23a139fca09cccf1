package activity

const (
	InsertEvent = `
		INSERT INTO activity_log (event_id, occurred_at, action, kind, storage_key, original_name, size_bytes, actor)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	SelectRecentEvents = `
		SELECT event_id, occurred_at, action, kind, storage_key, original_name, size_bytes, actor
		FROM activity_log
		ORDER BY occurred_at DESC
		LIMIT $1
	`
)
