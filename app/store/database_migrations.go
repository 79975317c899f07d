// database_migrations.go - Datenbank-Schema-Migrationen
// Enthält: migrate(), alle migrateVxToVy() Funktionen

package store

import "fmt"

// migrate führt Datenbank-Schema-Migrationen durch
func (db *database) migrate() error {
	version, err := db.getSchemaVersion()
	if err != nil {
		return fmt.Errorf("get schema version after migration attempt: %w", err)
	}

	for version < currentSchemaVersion {
		switch version {
		case 1:
			// video_id Spalte zur chats Tabelle hinzufügen
			if err := db.migrateV1ToV2(); err != nil {
				return fmt.Errorf("migrate v1 to v2: %w", err)
			}
			version = 2
		case 2:
			// boundary_seen Spalte zur messages Tabelle hinzufügen
			if err := db.migrateV2ToV3(); err != nil {
				return fmt.Errorf("migrate v2 to v3: %w", err)
			}
			version = 3
		default:
			// Unbekannte Version - auf aktuell setzen
			version = currentSchemaVersion
		}
	}

	return nil
}

// migrateV1ToV2 fügt die video_id Spalte zur chats Tabelle hinzu
func (db *database) migrateV1ToV2() error {
	_, err := db.conn.Exec(`ALTER TABLE chats ADD COLUMN video_id TEXT NOT NULL DEFAULT '';`)
	if err != nil && !duplicateColumnError(err) {
		return fmt.Errorf("add video_id column: %w", err)
	}

	return db.setSchemaVersion(2)
}

// migrateV2ToV3 fügt die boundary_seen Spalte zur messages Tabelle hinzu.
// Eine ältere Antwort hatte eine Grenze, wenn Antworttext oder Segmente
// gespeichert sind. Antworten nur aus Tool-Calls haben leeren content.
func (db *database) migrateV2ToV3() error {
	_, err := db.conn.Exec(`ALTER TABLE messages ADD COLUMN boundary_seen BOOLEAN NOT NULL DEFAULT 0;`)
	if err != nil && !duplicateColumnError(err) {
		return fmt.Errorf("add boundary_seen column: %w", err)
	}

	_, err = db.conn.Exec(`
		UPDATE messages SET boundary_seen = 1
		WHERE role = 'assistant'
		AND (content != '' OR EXISTS (SELECT 1 FROM segments s WHERE s.message_id = messages.id));`)
	if err != nil {
		return fmt.Errorf("backfill boundary_seen: %w", err)
	}

	return db.setSchemaVersion(3)
}
