// Package migrations содержит схему БД сервиса
package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/m04kA/SMC-StadiumBooking/pkg/dbmetrics"
)

//go:embed *.sql
var files embed.FS

// Apply применяет все миграции по порядку имен файлов.
// Миграции идемпотентны (IF NOT EXISTS), повторный запуск безопасен.
func Apply(ctx context.Context, db dbmetrics.DBExecutor) error {
	names, err := fs.Glob(files, "*.sql")
	if err != nil {
		return fmt.Errorf("migrations: list files: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		script, err := files.ReadFile(name)
		if err != nil {
			return fmt.Errorf("migrations: read %s: %w", name, err)
		}
		if _, err := db.ExecContext(ctx, string(script)); err != nil {
			return fmt.Errorf("migrations: apply %s: %w", name, err)
		}
	}

	return nil
}
