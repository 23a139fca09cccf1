package user

const (
	SelectUserByUsername = `
		SELECT uuid, username, password_hash, created_at
		FROM gallery_users
		WHERE username = $1
	`
	SelectUserByID = `
		SELECT uuid, username, password_hash, created_at
		FROM gallery_users
		WHERE uuid = $1
	`
)
