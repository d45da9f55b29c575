package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/edusight/edusight/core/suggestion"
)

type suggestionRepository struct {
	db *suggestionTable
}

var _ suggestion.Repository = (*suggestionRepository)(nil) // interface compliance check

func NewSuggestionRepository(db *DB) suggestion.Repository {
	return &suggestionRepository{db: db.suggestion}
}

func (repo *suggestionRepository) CreateSuggestion(ctx context.Context, s suggestion.CourseSuggestion) (suggestion.CourseSuggestion, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.pk++
	s.ID = repo.db.pk
	repo.db.table[s.ID] = &s
	return s, nil
}

func (repo *suggestionRepository) GetSuggestionByID(ctx context.Context, id int) (suggestion.CourseSuggestion, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if s, ok := repo.db.table[id]; ok {
		return *s, nil
	}
	return suggestion.CourseSuggestion{}, suggestion.ErrSuggestionNotFound
}

func (repo *suggestionRepository) QueryStudentSuggestions(ctx context.Context, studentID int) ([]suggestion.CourseSuggestion, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var out []suggestion.CourseSuggestion
	for _, s := range repo.db.table {
		if s.StudentID == studentID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (repo *suggestionRepository) QueryRecentStudentSuggestions(ctx context.Context, studentID int, since time.Time) ([]suggestion.CourseSuggestion, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var out []suggestion.CourseSuggestion
	for _, s := range repo.db.table {
		if s.StudentID == studentID && !s.CreatedAt.Before(since) {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (repo *suggestionRepository) UpdateSuggestion(ctx context.Context, s suggestion.CourseSuggestion) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[s.ID]; !ok {
		return suggestion.ErrSuggestionNotFound
	}
	repo.db.table[s.ID] = &s
	return nil
}

func (repo *suggestionRepository) QueryPendingSuggestions(ctx context.Context, after, before time.Time) ([]suggestion.CourseSuggestion, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var out []suggestion.CourseSuggestion
	for _, s := range repo.db.table {
		if !s.Pending() {
			continue
		}
		if s.CreatedAt.Before(after) || !s.CreatedAt.Before(before) {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
