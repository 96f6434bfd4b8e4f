package db

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"ems/internal/platform/config"
)

// seedRoles is the fixed catalog; rank orders the employee tier with higher
// meaning more authority.
var seedRoles = []struct {
	Name string
	Rank int
}{
	{"Manager", 3},
	{"Asst. Manager", 2},
	{"General Employee", 1},
}

// Seed makes the role catalog and the optional bootstrap company exist.
// Re-running against a seeded database changes nothing.
func Seed(ctx context.Context, q Queryer, cfg config.Config) error {
	if err := ensureRoles(ctx, q); err != nil {
		return err
	}
	return ensureSeedCompany(ctx, q, cfg.SeedCompanyName, cfg.SeedCompanyUser, cfg.SeedCompanyPass)
}

func ensureRoles(ctx context.Context, q Queryer) error {
	for _, role := range seedRoles {
		_, err := q.Exec(ctx, `
      INSERT INTO roles (name, rank)
      VALUES ($1, $2)
      ON CONFLICT (name) DO UPDATE SET rank = EXCLUDED.rank
    `, role.Name, role.Rank)
		if err != nil {
			return err
		}
	}
	return nil
}

func ensureSeedCompany(ctx context.Context, q Queryer, name, username, password string) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return nil
	}

	var id string
	err := q.QueryRow(ctx, "SELECT id FROM companies WHERE username = $1", username).Scan(&id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return q.QueryRow(ctx, `
    INSERT INTO companies (name, username, password_hash)
    VALUES ($1, $2, $3)
    RETURNING id
  `, name, username, string(hash)).Scan(&id)
}
