package db

import (
	"context"
	"fmt"
	"strings"
)

// ListSkillNames returns every skill name in the vocabulary table, ordered by
// name.
func (db *DB) ListSkillNames(ctx context.Context) ([]string, error) {
	rows, err := db.pool.Query(ctx, `SELECT name FROM skills ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan skill: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate skills: %w", err)
	}
	return names, nil
}

// LoadSkillNames implements skills.Store.
func (db *DB) LoadSkillNames(ctx context.Context) ([]string, error) {
	return db.ListSkillNames(ctx)
}

// AddSkills inserts names that are not yet present, ignoring case, and
// returns how many rows were added.
func (db *DB) AddSkills(ctx context.Context, names []string) (int, error) {
	added := 0
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		tag, err := db.pool.Exec(ctx,
			`INSERT INTO skills (name) VALUES ($1)
			 ON CONFLICT ((LOWER(name))) DO NOTHING`,
			name,
		)
		if err != nil {
			return added, fmt.Errorf("failed to add skill %q: %w", name, err)
		}
		added += int(tag.RowsAffected())
	}
	return added, nil
}

// DeleteSkill removes a skill by name, ignoring case.
func (db *DB) DeleteSkill(ctx context.Context, name string) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM skills WHERE LOWER(name) = LOWER($1)`, name)
	if err != nil {
		return false, fmt.Errorf("failed to delete skill %q: %w", name, err)
	}
	return tag.RowsAffected() > 0, nil
}
