package migrations

import (
	"context"
	_ "embed"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

//go:embed 0001_init.sql
var initSQL string

var Migrations = migrate.NewMigrations()

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.Exec(initSQL)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.Exec(`
				DROP TABLE IF EXISTS room_messages;
				DROP TABLE IF EXISTS room_players;
				DROP TABLE IF EXISTS rooms;
				DROP TABLE IF EXISTS quiz_results;
				DROP TABLE IF EXISTS players;
				DROP TABLE IF EXISTS questions;
			`)
			return err
		},
	)
}
