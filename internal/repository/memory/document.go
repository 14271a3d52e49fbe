package memory

import (
	"context"
	"sort"
	"strings"

	"docmarket/internal/model"
	"docmarket/internal/repository"
)

// DocumentStore implements repository.DocumentRepository.
type DocumentStore struct {
	s *Store
}

var _ repository.DocumentRepository = (*DocumentStore)(nil)

func (r *DocumentStore) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	var out model.Document
	err := r.s.write(ctx, func(st *state) error {
		if _, ok := st.documents[doc.ID]; ok {
			return repository.ErrConflict
		}
		st.documents[doc.ID] = *doc
		out = *doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *DocumentStore) FindByID(ctx context.Context, id string) (*model.Document, error) {
	var out model.Document
	err := r.s.read(ctx, func(st *state) error {
		d, ok := st.documents[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *DocumentStore) List(ctx context.Context, f repository.DocumentFilter, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	var matched []model.Document
	err := r.s.read(ctx, func(st *state) error {
		for _, d := range st.documents {
			if f.Category != "" && !strings.EqualFold(d.Category, f.Category) {
				continue
			}
			matched = append(matched, d)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	start := min(max(pq.Offset, 0), total)
	end := total
	if pq.Limit > 0 {
		end = min(start+pq.Limit, total)
	}

	items := make([]model.Document, 0, end-start)
	items = append(items, matched[start:end]...)
	return &repository.PageResult[model.Document]{Items: items, Total: total}, nil
}

func (r *DocumentStore) Delete(ctx context.Context, id string) error {
	return r.s.write(ctx, func(st *state) error {
		delete(st.documents, id)
		return nil
	})
}
