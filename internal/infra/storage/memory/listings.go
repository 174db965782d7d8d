// Package memory provides mutex-guarded map repositories used by tests
// and as the default storage mode for local runs.
package memory

import (
	"context"
	"sort"
	"sync"

	domainlisting "stayfinder/internal/domain/listing"
	"stayfinder/internal/domain/user"
)

type ListingRepository struct {
	mu    sync.RWMutex
	items map[domainlisting.ID]*domainlisting.Listing
}

func NewListingRepository() *ListingRepository {
	return &ListingRepository{items: make(map[domainlisting.ID]*domainlisting.Listing)}
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlisting.ID) (*domainlisting.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lst, ok := r.items[id]
	if !ok {
		return nil, domainlisting.ErrNotFound
	}
	return lst, nil
}

func (r *ListingRepository) ByHost(ctx context.Context, hostID user.ID) ([]*domainlisting.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*domainlisting.Listing, 0)
	for _, lst := range r.items {
		if lst.HostID == hostID {
			result = append(result, lst)
		}
	}
	sortListings(result)
	return result, nil
}

func (r *ListingRepository) Page(ctx context.Context, page, limit int) ([]*domainlisting.Listing, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]*domainlisting.Listing, 0, len(r.items))
	for _, lst := range r.items {
		all = append(all, lst)
	}
	sortListings(all)

	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return []*domainlisting.Listing{}, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *ListingRepository) Save(ctx context.Context, lst *domainlisting.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[lst.ID] = lst
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id domainlisting.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainlisting.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func sortListings(items []*domainlisting.Listing) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}
