package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/SnapScribe/app/internal/services/words/internal/model"
)

type Config struct {
	// Driver is "postgres" or "sqlite". Empty means sqlite.
	Driver string

	Host     string
	Port     string
	User     string
	Password string
	DB       string

	// Path is the sqlite database file.
	Path string
}

// SQLStore serves the catalog from a relational database.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	dsn     string
}

func Open(ctx context.Context, cfg Config) (*SQLStore, error) {
	d, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	var dsn string
	switch d.(type) {
	case postgresDialect:
		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.Host,
			cfg.Port,
			cfg.User,
			cfg.Password,
			cfg.DB)
	default:
		if cfg.Path == "" {
			return nil, fmt.Errorf("sqlite path is required")
		}
		dsn = sqliteDSN(cfg.Path)
	}

	db, err := sql.Open(d.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", d.Name(), err)
	}

	if err := d.Configure(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", d.Name(), err)
	}

	return &SQLStore{db: db, dialect: d, dsn: dsn}, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLStore) Languages(ctx context.Context) ([]model.Language, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, iso639, name, flag FROM languages ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query languages: %w", err)
	}
	defer rows.Close()

	var res []model.Language
	for rows.Next() {
		var l model.Language
		if err := rows.Scan(&l.ID, &l.ISO639, &l.Name, &l.Flag); err != nil {
			return nil, fmt.Errorf("scan language: %w", err)
		}
		res = append(res, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate languages: %w", err)
	}

	return res, nil
}

func (s *SQLStore) Categories(ctx context.Context) ([]model.Category, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, emoji FROM categories ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var res []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Emoji); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		res = append(res, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	return res, nil
}

func (s *SQLStore) Words(ctx context.Context) ([]model.Word, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, image, language_id, category_id, created_at
		FROM words
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query words: %w", err)
	}
	defer rows.Close()

	var res []model.Word
	for rows.Next() {
		var (
			w       model.Word
			created int64
		)
		if err := rows.Scan(&w.ID, &w.Name, &w.Description, &w.Image, &w.LanguageID, &w.CategoryID, &created); err != nil {
			return nil, fmt.Errorf("scan word: %w", err)
		}
		w.CreatedAt = time.UnixMilli(created).UTC()
		res = append(res, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate words: %w", err)
	}

	return res, nil
}

// InsertWord stores w and returns its ID. A duplicate name within a language
// yields ErrExists, an unknown language or category ErrNotFound.
func (s *SQLStore) InsertWord(ctx context.Context, w model.Word) (int64, error) {
	created := w.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	q := s.dialect.Rebind(`
		INSERT INTO words (name, description, image, language_id, category_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`)
	row := s.db.QueryRowContext(ctx, q, w.Name, w.Description, w.Image, w.LanguageID, w.CategoryID, created.UnixMilli())

	var id int64
	if err := row.Scan(&id); err != nil {
		if cerr := s.dialect.Classify(err); errors.Is(cerr, ErrExists) || errors.Is(cerr, ErrNotFound) {
			return 0, cerr
		}
		return 0, fmt.Errorf("insert word: %w", err)
	}

	return id, nil
}
