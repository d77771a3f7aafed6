package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/poiesic/winregi/catalog"
	"github.com/poiesic/winregi/core"
	"github.com/poiesic/winregi/profile"
)

// Recommend suggests entries without a query: the profile's favorites first,
// in catalog order, then one entry per category in category order, then the
// remaining entries in catalog order, until limit is reached.
// A limit <= 0 uses the searcher's limit. p may be nil.
func (s *Searcher) Recommend(ctx context.Context, p *profile.Profile, limit int) ([]*core.RankedResult, error) {
	if limit <= 0 {
		limit = s.limit
	}

	entries, err := s.catalog.LoadEntries(ctx)
	if err != nil {
		if errors.Is(err, catalog.ErrCatalogUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", catalog.ErrCatalogUnavailable, err)
	}

	var categories []*core.Category
	if lister, ok := s.catalog.(catalog.CategoryLister); ok {
		if categories, err = lister.LoadCategories(ctx); err != nil {
			s.logger.Warn("error loading categories, using catalog order", "err", err)
		}
	}

	favorites := make(map[string]bool)
	if p != nil {
		for _, id := range p.Favorites() {
			favorites[id] = true
		}
	}

	results := make([]*core.RankedResult, 0, limit)
	picked := make(map[string]bool)
	add := func(e *core.SettingEntry, score float64) {
		if len(results) >= limit || picked[e.Id] {
			return
		}
		picked[e.Id] = true
		r := &core.RankedResult{Entry: e, Score: score}
		if a := e.DefaultAction(); a != nil {
			r.SuggestedActionId = a.Id
		}
		results = append(results, r)
	}

	for _, e := range entries {
		if favorites[e.Id] {
			add(e, 1)
		}
	}

	firstOf := make(map[string]*core.SettingEntry)
	for _, e := range entries {
		if _, ok := firstOf[e.CategoryId]; !ok {
			firstOf[e.CategoryId] = e
		}
	}
	for _, c := range categories {
		if e, ok := firstOf[c.Id]; ok {
			add(e, 0)
		}
	}

	for _, e := range entries {
		add(e, 0)
	}

	return results, nil
}
