package db

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Devijino/Transcriber/internal/auth"
	"github.com/Devijino/Transcriber/internal/db/models"
)

type Database struct {
	db *sql.DB
}

func NewSQLite(path string) (*Database, error) {
	sqlDB, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	d := &Database{db: sqlDB}
	if err := d.migrate(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT UNIQUE NOT NULL,
		password TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'viewer',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS transcripts (
		id TEXT PRIMARY KEY,
		url TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		transcript TEXT NOT NULL DEFAULT '',
		translation TEXT NOT NULL DEFAULT '',
		source_lang TEXT NOT NULL DEFAULT '',
		target_lang TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		quality INTEGER NOT NULL DEFAULT 0,
		used_for_training INTEGER NOT NULL DEFAULT 0,
		training_date DATETIME
	);
	`
	_, err := d.db.Exec(schema)
	return err
}

func (d *Database) EnsureAdmin(username, password string) error {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM users WHERE role = 'admin'").Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = d.db.Exec(
		"INSERT INTO users (username, password, role) VALUES (?, ?, 'admin')",
		username, hash,
	)
	return err
}

func (d *Database) GetUserByUsername(username string) (*models.User, error) {
	u := &models.User{}
	err := d.db.QueryRow(
		"SELECT id, username, password, role, created_at, updated_at FROM users WHERE username = ?",
		username,
	).Scan(&u.ID, &u.Username, &u.Password, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (d *Database) GetUserByID(id int64) (*models.User, error) {
	u := &models.User{}
	err := d.db.QueryRow(
		"SELECT id, username, password, role, created_at, updated_at FROM users WHERE id = ?",
		id,
	).Scan(&u.ID, &u.Username, &u.Password, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// UpsertTranscript inserts or replaces a transcript row by id.
// Last write wins on concurrent submission of the same video.
func (d *Database) UpsertTranscript(t *models.Transcript) error {
	_, err := d.db.Exec(`
		INSERT INTO transcripts
			(id, url, title, transcript, translation, source_lang, target_lang, created_at, quality, used_for_training, training_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			url=excluded.url, title=excluded.title, transcript=excluded.transcript,
			translation=excluded.translation, source_lang=excluded.source_lang,
			target_lang=excluded.target_lang, quality=excluded.quality`,
		t.ID, t.URL, t.Title, t.Transcript, t.Translation, t.SourceLang, t.TargetLang,
		t.CreatedAt, t.Quality, boolToInt(t.UsedForTraining), t.TrainingDate,
	)
	return err
}

// ListTranscripts returns all stored transcripts, newest first
func (d *Database) ListTranscripts() ([]*models.Transcript, error) {
	rows, err := d.db.Query(`
		SELECT id, url, title, transcript, translation, source_lang, target_lang,
		       created_at, quality, used_for_training, training_date
		FROM transcripts ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Transcript
	for rows.Next() {
		t := &models.Transcript{}
		var trained int
		var trainingDate sql.NullTime
		if err := rows.Scan(&t.ID, &t.URL, &t.Title, &t.Transcript, &t.Translation,
			&t.SourceLang, &t.TargetLang, &t.CreatedAt, &t.Quality, &trained, &trainingDate); err != nil {
			return nil, err
		}
		t.UsedForTraining = trained != 0
		if trainingDate.Valid {
			t.TrainingDate = &trainingDate.Time
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListUntrained returns transcripts eligible for training: quality above
// minQuality and not yet used for training.
func (d *Database) ListUntrained(minQuality int) ([]*models.Transcript, error) {
	rows, err := d.db.Query(`
		SELECT id, url, title, transcript, translation, source_lang, target_lang,
		       created_at, quality, used_for_training, training_date
		FROM transcripts
		WHERE used_for_training = 0 AND quality > ?
		ORDER BY created_at ASC`, minQuality)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Transcript
	for rows.Next() {
		t := &models.Transcript{}
		var trained int
		var trainingDate sql.NullTime
		if err := rows.Scan(&t.ID, &t.URL, &t.Title, &t.Transcript, &t.Translation,
			&t.SourceLang, &t.TargetLang, &t.CreatedAt, &t.Quality, &trained, &trainingDate); err != nil {
			return nil, err
		}
		t.UsedForTraining = trained != 0
		out = append(out, t)
	}
	return out, rows.Err()
}

// MarkTrained flags transcripts as consumed by a training run
func (d *Database) MarkTrained(ids []string, when time.Time) error {
	for _, id := range ids {
		if _, err := d.db.Exec(
			"UPDATE transcripts SET used_for_training = 1, training_date = ? WHERE id = ?",
			when, id,
		); err != nil {
			return err
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
