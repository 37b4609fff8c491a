package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/MartinEBravo/duech-go/internal/pkg/fn"
	"github.com/MartinEBravo/duech-go/internal/search/facet"
	"github.com/MartinEBravo/duech-go/internal/search/model"
	"github.com/lib/pq"
)

// PostgresStore implements ContentStore using PostgreSQL as the backend.
type PostgresStore struct {
	db *sql.DB
}

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DB       string
}

func NewPostgresStore(cfg PostgresConfig) (*PostgresStore, error) {
	db, err := sql.Open("postgres", fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.DB))
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// NewPostgresStoreWithDB wraps an existing connection, used by tests.
func NewPostgresStoreWithDB(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// searchFilter accumulates AND-combined WHERE conditions with positional
// args. Each cond carries a %d verb for its placeholder index.
type searchFilter struct {
	conds []string
	args  []any
}

func (f *searchFilter) add(cond string, arg any) {
	f.args = append(f.args, arg)
	f.conds = append(f.conds, fmt.Sprintf(cond, len(f.args)))
}

func (f *searchFilter) where() string {
	if len(f.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.conds, " AND ")
}

// buildSearchFilter translates the validated filter set plus the status scope
// into SQL. List filters are OR within a dimension (= ANY) and AND across
// dimensions. Sense-level facets use EXISTS so a word matches when any of its
// senses carries a selected value. When a query term is present it is always
// argument $1; the match-type projection relies on that.
func buildSearchFilter(r SearchRequest) *searchFilter {
	f := &searchFilter{}

	if r.Filters.Query != "" {
		f.add("w.lemma ILIKE '%%' || $%d || '%%'", r.Filters.Query)
	}

	f.add("w.status = ANY($%d)", pq.Array(statusValues(r.StatusScope)))

	if len(r.Filters.Letters) > 0 {
		f.add("w.letter = ANY($%d)", pq.Array(r.Filters.Letters))
	}
	if len(r.Filters.AssignedTo) > 0 {
		f.add("w.assigned_to::text = ANY($%d)", pq.Array(r.Filters.AssignedTo))
	}
	if len(r.Filters.Categories) > 0 {
		f.add("EXISTS (SELECT 1 FROM senses s WHERE s.word_id = w.id AND s.category = ANY($%d))",
			pq.Array(r.Filters.Categories))
	}
	if len(r.Filters.Origins) > 0 {
		f.add("EXISTS (SELECT 1 FROM senses s WHERE s.word_id = w.id AND s.origin = ANY($%d))",
			pq.Array(r.Filters.Origins))
	}
	for _, m := range facet.All() {
		vals := r.Filters.Markers[m]
		if len(vals) == 0 {
			continue
		}
		cond := fmt.Sprintf("EXISTS (SELECT 1 FROM senses s WHERE s.word_id = w.id AND s.%s = ANY($%%d))", m.Column())
		f.add(cond, pq.Array(vals))
	}

	return f
}

func (s *PostgresStore) Search(ctx context.Context, r SearchRequest) (SearchResponse, error) {
	if len(r.StatusScope) == 0 {
		return SearchResponse{Items: []model.SearchResultItem{}}, nil
	}

	f := buildSearchFilter(r)

	var total int
	err := s.db.QueryRowContext(ctx, "SELECT count(*) FROM words w"+f.where(), f.args...).Scan(&total)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("count search results: %w", err)
	}

	matchExpr := "'filter'"
	if r.Filters.Query != "" {
		matchExpr = "CASE WHEN lower(w.lemma) = lower($1) THEN 'exact' ELSE 'partial' END"
	}

	// Ordering by (lower(lemma), id) keeps pagination stable across requests.
	itemsQuery := fmt.Sprintf(`SELECT w.id, w.lemma, w.letter, w.status,
		COALESCE(w.assigned_to::text, ''), COALESCE(w.created_by::text, ''), %s AS match_type
		FROM words w%s
		ORDER BY lower(w.lemma), w.id
		LIMIT $%d OFFSET $%d`,
		matchExpr, f.where(), len(f.args)+1, len(f.args)+2)

	args := append(f.args, r.Limit, r.Offset)
	rows, err := s.db.QueryContext(ctx, itemsQuery, args...)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("query search results: %w", err)
	}
	defer rows.Close()

	items := []model.SearchResultItem{}
	var ids []int64
	for rows.Next() {
		var item model.SearchResultItem
		err := rows.Scan(
			&item.Word.ID,
			&item.Word.Lemma,
			&item.Word.Letter,
			&item.Word.Status,
			&item.Word.AssignedTo,
			&item.Word.CreatedBy,
			&item.MatchType,
		)
		if err != nil {
			return SearchResponse{}, fmt.Errorf("scan search result: %w", err)
		}

		items = append(items, item)
		ids = append(ids, item.Word.ID)
	}
	if err := rows.Err(); err != nil {
		return SearchResponse{}, fmt.Errorf("iterate search results: %w", err)
	}

	senses, err := s.loadSenses(ctx, ids)
	if err != nil {
		return SearchResponse{}, err
	}
	for i := range items {
		items[i].Word.Senses = senses[items[i].Word.ID]
	}

	return SearchResponse{Items: items, Total: total}, nil
}

func (s *PostgresStore) DistinctValues(ctx context.Context, column string) ([]string, error) {
	if !slices.Contains(facet.Columns(), column) {
		return nil, fmt.Errorf("unknown facet column %q", column)
	}

	query := fmt.Sprintf("SELECT DISTINCT %s FROM senses WHERE %s IS NOT NULL AND %s <> ''",
		column, column, column)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query distinct %s values: %w", column, err)
	}
	defer rows.Close()

	var vals []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan distinct %s value: %w", column, err)
		}
		vals = append(vals, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate distinct %s values: %w", column, err)
	}

	return vals, nil
}

func (s *PostgresStore) GetByLemma(ctx context.Context, r GetByLemmaRequest) (GetByLemmaResponse, error) {
	if len(r.StatusScope) == 0 {
		return GetByLemmaResponse{}, ErrNotFound
	}

	row := s.db.QueryRowContext(ctx, `SELECT w.id, w.lemma, w.letter, w.status,
		COALESCE(w.assigned_to::text, ''), COALESCE(w.created_by::text, ''), w.created_at, w.updated_at
		FROM words w
		WHERE lower(w.lemma) = lower($1) AND w.status = ANY($2)
		ORDER BY w.id
		LIMIT 1`,
		r.Lemma, pq.Array(statusValues(r.StatusScope)))

	var w model.Word
	err := row.Scan(&w.ID, &w.Lemma, &w.Letter, &w.Status, &w.AssignedTo, &w.CreatedBy, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetByLemmaResponse{}, ErrNotFound
		}
		return GetByLemmaResponse{}, fmt.Errorf("query word by lemma: %w", err)
	}

	senses, err := s.loadSenses(ctx, []int64{w.ID})
	if err != nil {
		return GetByLemmaResponse{}, err
	}
	w.Senses = senses[w.ID]

	return GetByLemmaResponse{Word: w}, nil
}

func (s *PostgresStore) LemmasByLetter(ctx context.Context, r LemmasByLetterRequest) (LemmasByLetterResponse, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT w.id, w.lemma, w.letter, w.status
		FROM words w
		WHERE w.letter = $1 AND w.status = $2
		ORDER BY lower(w.lemma), w.id`,
		r.Letter, string(r.Status))
	if err != nil {
		return LemmasByLetterResponse{}, fmt.Errorf("query lemmas by letter: %w", err)
	}
	defer rows.Close()

	var words []model.Word
	for rows.Next() {
		var w model.Word
		if err := rows.Scan(&w.ID, &w.Lemma, &w.Letter, &w.Status); err != nil {
			return LemmasByLetterResponse{}, fmt.Errorf("scan lemma by letter: %w", err)
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return LemmasByLetterResponse{}, fmt.Errorf("iterate lemmas by letter: %w", err)
	}

	return LemmasByLetterResponse{Words: words}, nil
}

func (s *PostgresStore) loadSenses(ctx context.Context, wordIDs []int64) (map[int64][]model.Sense, error) {
	senses := make(map[int64][]model.Sense, len(wordIDs))
	if len(wordIDs) == 0 {
		return senses, nil
	}

	markerCols := fn.Map(facet.All(), func(m facet.Marker) string {
		return fmt.Sprintf("COALESCE(s.%s, '')", m.Column())
	})
	query := fmt.Sprintf(`SELECT s.id, s.word_id, s.num, s.definition,
		COALESCE(s.category, ''), COALESCE(s.origin, ''), %s
		FROM senses s
		WHERE s.word_id = ANY($1)
		ORDER BY s.word_id, s.num`,
		strings.Join(markerCols, ", "))

	rows, err := s.db.QueryContext(ctx, query, pq.Array(wordIDs))
	if err != nil {
		return nil, fmt.Errorf("query senses: %w", err)
	}
	defer rows.Close()

	markers := facet.All()
	for rows.Next() {
		var sense model.Sense
		markerVals := make([]string, len(markers))

		dest := []any{&sense.ID, &sense.WordID, &sense.Num, &sense.Definition, &sense.Category, &sense.Origin}
		for i := range markerVals {
			dest = append(dest, &markerVals[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan sense: %w", err)
		}

		sense.Markers = make(map[facet.Marker]string)
		for i, m := range markers {
			if markerVals[i] != "" {
				sense.Markers[m] = markerVals[i]
			}
		}

		senses[sense.WordID] = append(senses[sense.WordID], sense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate senses: %w", err)
	}

	return senses, nil
}

func statusValues(scope []model.Status) []string {
	return fn.Map(scope, func(s model.Status) string { return string(s) })
}
