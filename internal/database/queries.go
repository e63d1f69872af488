package database

// Collection queries. Each collection (drafts, orders) is stored whole as a
// single JSONB document.
const (
	UpsertCollectionSQL = `
		INSERT INTO collections (name, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO UPDATE SET
			payload = EXCLUDED.payload,
			updated_at = NOW()`

	GetCollectionSQL = `
		SELECT payload FROM collections WHERE name = $1`
)
