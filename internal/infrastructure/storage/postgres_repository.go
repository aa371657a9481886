package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"NewsRiskScanner/internal/domain"
	"NewsRiskScanner/internal/ports"
)

const archiveTable = "analyzed_articles"

const createArchiveTable = `CREATE TABLE IF NOT EXISTS analyzed_articles (
    run_id           UUID        NOT NULL,
    keyword          TEXT        NOT NULL,
    title            TEXT        NOT NULL,
    source           TEXT        NOT NULL,
    listed_at        TEXT        NOT NULL,
    url              TEXT        NOT NULL,
    word_count       INTEGER     NOT NULL,
    summary          TEXT        NOT NULL DEFAULT '',
    risk_score       INTEGER,
    sentiment        TEXT,
    risk_category    TEXT,
    key_factors      TEXT[],
    key_entities     TEXT[],
    keywords         TEXT[],
    reasoning        TEXT,
    publication_date DATE,
    risk_error       TEXT,
    summary_error    TEXT,
    archived_at      TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (run_id, url)
)`

// PostgresArchive appends analyzed records into Postgres; every Archive call gets its own run id.
type PostgresArchive struct {
	db    *sql.DB
	now   func() time.Time
	newID func() uuid.UUID
}

var _ ports.ArticleArchive = (*PostgresArchive)(nil)

// OpenPostgres connects with lib/pq and verifies the connection.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open postgres: %v", domain.ErrResourceInit, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping postgres: %v", domain.ErrResourceInit, err)
	}
	return db, nil
}

// NewPostgresArchive wires a sql.DB implementation.
func NewPostgresArchive(db *sql.DB) *PostgresArchive {
	return &PostgresArchive{db: db, now: time.Now, newID: uuid.New}
}

// EnsureSchema creates the archive table when missing.
func (r *PostgresArchive) EnsureSchema(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, createArchiveTable); err != nil {
		return fmt.Errorf("create archive table: %w", err)
	}
	return nil
}

// Archive inserts the records of one keyword run.
func (r *PostgresArchive) Archive(ctx context.Context, keyword string, records []domain.AnalyzedArticle) error {
	if r.db == nil || len(records) == 0 {
		return nil
	}

	query, args, err := insertQuery(r.newID(), keyword, records, r.now().UTC())
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert analyzed articles: %w", err)
	}
	return nil
}

func insertQuery(runID uuid.UUID, keyword string, records []domain.AnalyzedArticle, at time.Time) (string, []interface{}, error) {
	builder := sq.Insert(archiveTable).
		Columns(
			"run_id", "keyword", "title", "source", "listed_at", "url", "word_count", "summary",
			"risk_score", "sentiment", "risk_category", "key_factors", "key_entities", "keywords",
			"reasoning", "publication_date", "risk_error", "summary_error", "archived_at",
		).
		Suffix("ON CONFLICT (run_id, url) DO NOTHING").
		PlaceholderFormat(sq.Dollar)

	for _, rec := range records {
		var (
			score                          sql.NullInt64
			sentiment, category, reasoning sql.NullString
			factors, entities, keywords    pq.StringArray
			publicationDate                sql.NullString
		)
		if risk := rec.Risk; risk != nil {
			score = sql.NullInt64{Int64: int64(risk.RiskScore), Valid: true}
			sentiment = nullString(string(risk.Sentiment))
			category = nullString(risk.RiskCategory)
			reasoning = nullString(risk.Reasoning)
			factors = pq.StringArray(risk.KeyFactors)
			entities = pq.StringArray(risk.KeyEntities)
			keywords = pq.StringArray(risk.Keywords)
			if risk.PublicationDate != nil {
				publicationDate = nullString(*risk.PublicationDate)
			}
		}

		builder = builder.Values(
			runID.String(), keyword, rec.Title, rec.Source, rec.Timestamp, rec.URL, rec.WordCount, rec.Summary,
			score, sentiment, category, factors, entities, keywords,
			reasoning, publicationDate, nullString(rec.RiskError), nullString(rec.SummaryError), at,
		)
	}

	return builder.ToSql()
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}
