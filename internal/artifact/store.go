// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package artifact

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/persona-digest/internal/textutil"
	"github.com/pdiddy/persona-digest/pkg/types"
)

const defaultSearchLimit = 20

// Store is a SQLite database of past runs. Each run keeps its metadata,
// its ranked sections with their refined text, and its warnings.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and ensures its schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			persona TEXT NOT NULL,
			job_to_be_done TEXT NOT NULL,
			processing_timestamp TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS run_documents (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			filename TEXT NOT NULL,
			PRIMARY KEY (run_id, position)
		)`,
		`CREATE TABLE IF NOT EXISTS sections (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			importance_rank INTEGER NOT NULL,
			document TEXT NOT NULL,
			section_title TEXT NOT NULL,
			page_number INTEGER NOT NULL,
			refined_text TEXT NOT NULL,
			PRIMARY KEY (run_id, importance_rank)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sections_document ON sections(document)`,
		`CREATE TABLE IF NOT EXISTS warnings (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			kind TEXT NOT NULL,
			document TEXT,
			message TEXT NOT NULL,
			PRIMARY KEY (run_id, position)
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveRun inserts res as a new run and returns its ID.
func (s *Store) SaveRun(ctx context.Context, res *types.Result) (int64, error) {
	if len(res.ExtractedSections) != len(res.SubsectionAnalysis) {
		return 0, fmt.Errorf("result has %d sections but %d refined texts",
			len(res.ExtractedSections), len(res.SubsectionAnalysis))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	md := res.Metadata
	r, err := tx.ExecContext(ctx,
		`INSERT INTO runs (persona, job_to_be_done, processing_timestamp) VALUES (?, ?, ?)`,
		md.Persona, md.JobToBeDone, md.ProcessingTimestamp)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := r.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	for i, doc := range md.InputDocuments {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_documents (run_id, position, filename) VALUES (?, ?, ?)`,
			runID, i, doc); err != nil {
			return 0, fmt.Errorf("inserting document %s: %w", doc, err)
		}
	}

	for i, es := range res.ExtractedSections {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sections (run_id, importance_rank, document, section_title, page_number, refined_text)
			VALUES (?, ?, ?, ?, ?, ?)`,
			runID, es.ImportanceRank, es.Document, es.SectionTitle, es.PageNumber,
			res.SubsectionAnalysis[i].RefinedText); err != nil {
			return 0, fmt.Errorf("inserting section %d: %w", es.ImportanceRank, err)
		}
	}

	for i, w := range md.Warnings {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO warnings (run_id, position, kind, document, message) VALUES (?, ?, ?, ?, ?)`,
			runID, i, string(w.Kind), w.Document, w.Message); err != nil {
			return 0, fmt.Errorf("inserting warning: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// LoadRun rebuilds the result stored as run id.
func (s *Store) LoadRun(ctx context.Context, id int64) (*types.Result, error) {
	res := &types.Result{
		ExtractedSections:  []types.ExtractedSection{},
		SubsectionAnalysis: []types.SubsectionAnalysis{},
	}
	md := &res.Metadata
	err := s.db.QueryRowContext(ctx,
		`SELECT persona, job_to_be_done, processing_timestamp FROM runs WHERE id = ?`, id,
	).Scan(&md.Persona, &md.JobToBeDone, &md.ProcessingTimestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying run %d: %w", id, err)
	}

	md.InputDocuments = []string{}
	if err := s.each(ctx, func(rows *sql.Rows) error {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		md.InputDocuments = append(md.InputDocuments, name)
		return nil
	}, `SELECT filename FROM run_documents WHERE run_id = ? ORDER BY position`, id); err != nil {
		return nil, err
	}

	if err := s.each(ctx, func(rows *sql.Rows) error {
		var es types.ExtractedSection
		var text string
		if err := rows.Scan(&es.ImportanceRank, &es.Document, &es.SectionTitle, &es.PageNumber, &text); err != nil {
			return err
		}
		res.ExtractedSections = append(res.ExtractedSections, es)
		res.SubsectionAnalysis = append(res.SubsectionAnalysis, types.SubsectionAnalysis{
			Document:    es.Document,
			RefinedText: text,
			PageNumber:  es.PageNumber,
		})
		return nil
	}, `SELECT importance_rank, document, section_title, page_number, refined_text
		FROM sections WHERE run_id = ? ORDER BY importance_rank`, id); err != nil {
		return nil, err
	}

	if err := s.each(ctx, func(rows *sql.Rows) error {
		var w types.Warning
		var kind string
		var doc sql.NullString
		if err := rows.Scan(&kind, &doc, &w.Message); err != nil {
			return err
		}
		w.Kind = types.WarningKind(kind)
		w.Document = doc.String
		md.Warnings = append(md.Warnings, w)
		return nil
	}, `SELECT kind, document, message FROM warnings WHERE run_id = ? ORDER BY position`, id); err != nil {
		return nil, err
	}

	return res, nil
}

// Hit is one stored section matching a search.
type Hit struct {
	RunID               int64  `json:"run_id" yaml:"run_id"`
	Persona             string `json:"persona" yaml:"persona"`
	JobToBeDone         string `json:"job_to_be_done" yaml:"job_to_be_done"`
	ProcessingTimestamp string `json:"processing_timestamp" yaml:"processing_timestamp"`

	types.ExtractedSection `yaml:",inline"`

	RefinedText string `json:"refined_text" yaml:"refined_text"`
}

// Search returns stored sections whose title or refined text contains
// every token of query, newest run first and then by importance rank. An
// empty query matches everything. limit <= 0 uses a default of 20.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT r.id, r.persona, r.job_to_be_done, r.processing_timestamp,
			s.document, s.section_title, s.importance_rank, s.page_number, s.refined_text
		FROM sections s
		JOIN runs r ON r.id = s.run_id
		WHERE 1=1`)

	for _, term := range textutil.Tokens(query) {
		qb.WriteString(` AND (lower(s.section_title) LIKE ? ESCAPE '\' OR lower(s.refined_text) LIKE ? ESCAPE '\')`)
		pattern := "%" + escapeLike(term) + "%"
		args = append(args, pattern, pattern)
	}

	qb.WriteString(` ORDER BY r.id DESC, s.importance_rank LIMIT ?`)
	args = append(args, limit)

	var hits []Hit
	err := s.each(ctx, func(rows *sql.Rows) error {
		var h Hit
		if err := rows.Scan(&h.RunID, &h.Persona, &h.JobToBeDone, &h.ProcessingTimestamp,
			&h.Document, &h.SectionTitle, &h.ImportanceRank, &h.PageNumber, &h.RefinedText); err != nil {
			return err
		}
		hits = append(hits, h)
		return nil
	}, qb.String(), args...)
	if err != nil {
		return nil, err
	}
	return hits, nil
}

// Search opens the existing database at dbPath and runs Store.Search. A
// missing database is an error wrapping fs.ErrNotExist; it is never created.
func Search(ctx context.Context, dbPath, query string, limit int) ([]Hit, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("opening artifact store: %w", err)
	}
	s, err := Open(dbPath)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return s.Search(ctx, query, limit)
}

func (s *Store) each(ctx context.Context, scan func(*sql.Rows) error, query string, args ...any) error {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("querying artifact store: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("scanning row: %w", err)
		}
	}
	return rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
