package migrations

import (
	"embed"
	"fmt"
	"io/fs"
	"os"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed sql
var embedded embed.FS

// MigrateStore applies the goose migrations to db. Migrations are read from
// migrationFolder when set, otherwise from the ones embedded for the dialect of db.
func MigrateStore(db *gorm.DB, migrationFolder string) error {
	goose.SetLogger(&logger{})

	dialect, dir := "postgres", "sql/postgres"
	if db.Dialector.Name() == "sqlite" {
		dialect, dir = "sqlite3", "sql/sqlite"
	}

	var source fs.FS = embedded
	if migrationFolder != "" {
		fi, err := os.Stat(migrationFolder)
		if err != nil {
			return err
		}
		if !fi.Mode().IsDir() {
			return fmt.Errorf("failed to open migration folder: %s is not a folder", migrationFolder)
		}
		source, dir = os.DirFS(migrationFolder), "."
	}

	goose.SetBaseFS(source)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(dialect); err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	if err := goose.Up(sqlDB, dir); err != nil {
		return fmt.Errorf("failed to apply %s migrations: %w", dialect, err)
	}
	return nil
}

// logger routes goose output to zap.
type logger struct{}

func (m *logger) Printf(format string, v ...interface{}) { zap.S().Named("migrations").Infof(format, v...) }
func (m *logger) Fatalf(format string, v ...interface{}) { zap.S().Named("migrations").Fatalf(format, v...) }
