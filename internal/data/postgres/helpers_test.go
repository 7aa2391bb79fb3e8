package postgres

import (
	"log/slog"
	"os"
	"regexp"

	"github.com/jackc/pgx/v5/pgconn"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// q turns a literal SQL fragment into a pattern for pgxmock's regex matcher
func q(fragment string) string {
	return regexp.QuoteMeta(fragment)
}

func pgError(code, constraint string) error {
	return &pgconn.PgError{Code: code, ConstraintName: constraint}
}
