package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MartinEBravo/duech-go/internal/search/facet"
	"github.com/MartinEBravo/duech-go/internal/search/model"
	"github.com/MartinEBravo/duech-go/internal/search/store"
)

const (
	seedLayout     = "2006-01-02"
	fallbackLetter = "a"
)

// WordOfDayService picks a reproducible word of the day: the same UTC
// calendar day always yields the same word, across requests and across
// process restarts. Picks are cached for the process lifetime.
type WordOfDayService struct {
	store store.ContentStore
	now   func() time.Time

	mu    sync.Mutex
	cache map[string]model.WordOfDay
}

type WordOfDayConfig struct {
	// Now overrides the clock, so tests control "today". Defaults to time.Now.
	Now func() time.Time
}

func NewWordOfDayService(st store.ContentStore, cfg WordOfDayConfig) *WordOfDayService {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &WordOfDayService{
		store: st,
		now:   now,
		cache: make(map[string]model.WordOfDay),
	}
}

// Today returns the pick for the current UTC calendar day, computing and
// caching it on first request.
func (s *WordOfDayService) Today(ctx context.Context) (model.WordOfDay, error) {
	seed := s.now().UTC().Format(seedLayout)

	s.mu.Lock()
	if w, ok := s.cache[seed]; ok {
		s.mu.Unlock()
		return w, nil
	}
	s.mu.Unlock()

	pick, err := s.pick(ctx, seed)
	if err != nil {
		return model.WordOfDay{}, err
	}

	// Concurrent first requests for the same day may race to this point.
	// The computation is pure given the seed, so last writer wins with an
	// identical value.
	s.mu.Lock()
	s.cache[seed] = pick
	s.mu.Unlock()

	return pick, nil
}

func (s *WordOfDayService) pick(ctx context.Context, seed string) (model.WordOfDay, error) {
	letter := facet.Alphabet[int(hashString(seed)%uint64(len(facet.Alphabet)))]

	pool, err := s.publishedByLetter(ctx, letter)
	if err != nil {
		return model.WordOfDay{}, err
	}
	if len(pool) == 0 && letter != fallbackLetter {
		letter = fallbackLetter
		pool, err = s.publishedByLetter(ctx, letter)
		if err != nil {
			return model.WordOfDay{}, err
		}
	}
	if len(pool) == 0 {
		// Deliberately fatal: a wrong or empty word of the day is worse
		// than an explicit error.
		return model.WordOfDay{}, fmt.Errorf("no published words under letter %q or fallback %q", letter, fallbackLetter)
	}

	sortWordsByLemma(newCollator(), pool)
	chosen := pool[int(hashString(seed+":"+letter)%uint64(len(pool)))]

	detail, err := s.store.GetByLemma(ctx, store.GetByLemmaRequest{
		Lemma:       chosen.Lemma,
		StatusScope: []model.Status{model.StatusPublished},
	})
	switch {
	case err == nil:
		chosen = detail.Word
	case errors.Is(err, store.ErrNotFound):
		// Keep the list projection.
	default:
		return model.WordOfDay{}, fmt.Errorf("load word of the day detail: %w", err)
	}

	return model.WordOfDay{Word: chosen, Letter: letter}, nil
}

func (s *WordOfDayService) publishedByLetter(ctx context.Context, letter string) ([]model.Word, error) {
	resp, err := s.store.LemmasByLetter(ctx, store.LemmasByLetterRequest{
		Letter: letter,
		Status: model.StatusPublished,
	})
	if err != nil {
		return nil, fmt.Errorf("query words for letter %q: %w", letter, err)
	}

	return resp.Words, nil
}

// hashString is a polynomial rolling hash over rune values. It must stay
// stable across process restarts: the daily pick depends on nothing else.
func hashString(s string) uint64 {
	var h uint64
	for _, r := range s {
		h = h*31 + uint64(r)
	}
	return h
}
