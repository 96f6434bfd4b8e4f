package db

import (
	"context"
	"errors"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"

	"ems/internal/platform/config"
)

func newSeedMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func expectRoleUpserts(mock pgxmock.PgxPoolIface) {
	for _, role := range seedRoles {
		mock.ExpectExec("INSERT INTO roles").
			WithArgs(role.Name, role.Rank).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}
}

func TestSeedSkipsExistingCompany(t *testing.T) {
	t.Parallel()

	mock := newSeedMock(t)
	expectRoleUpserts(mock)
	mock.ExpectQuery("SELECT id FROM companies").
		WithArgs("acme").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("c1"))

	cfg := config.Config{SeedCompanyName: "Acme", SeedCompanyUser: "acme", SeedCompanyPass: "secret"}
	if err := Seed(context.Background(), mock, cfg); err != nil {
		t.Fatalf("Seed returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// A lookup failure is not "company missing": the seed must surface it rather
// than insert a duplicate over a flaky connection.
func TestSeedPropagatesCompanyLookupError(t *testing.T) {
	t.Parallel()

	mock := newSeedMock(t)
	expectRoleUpserts(mock)
	lookupErr := errors.New("connection reset")
	mock.ExpectQuery("SELECT id FROM companies").
		WithArgs("acme").
		WillReturnError(lookupErr)

	cfg := config.Config{SeedCompanyName: "Acme", SeedCompanyUser: "acme", SeedCompanyPass: "secret"}
	if err := Seed(context.Background(), mock, cfg); !errors.Is(err, lookupErr) {
		t.Fatalf("expected lookup error to propagate, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
