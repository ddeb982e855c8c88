// Package refcache decorates reference-data repositories with a TTL cache.
// Group and member lists are read on every classification call but change
// rarely; classification runs take a snapshot anyway (no cross-record
// consistency is promised), so short-lived staleness is acceptable.
package refcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"councilwatch/contexts/legislation/reconciliation-engine/domain/entities"
	"councilwatch/contexts/legislation/reconciliation-engine/ports"
	"councilwatch/internal/platform/cache"
)

type GroupDirectory struct {
	Next  ports.GroupRepository
	Cache cache.Cache
	TTL   time.Duration
}

func (d GroupDirectory) GetGroupsByIDs(ctx context.Context, ids []int64) ([]entities.ParliamentaryGroup, error) {
	// Point lookups by id pass through; only the scans are worth caching.
	return d.Next.GetGroupsByIDs(ctx, ids)
}

func (d GroupDirectory) ListByGoverningBody(ctx context.Context, governingBodyID int64, activeOnly bool) ([]entities.ParliamentaryGroup, error) {
	key := fmt.Sprintf("groups:gb:%d:active:%t", governingBodyID, activeOnly)
	if data, found := d.Cache.Get(key); found {
		var groups []entities.ParliamentaryGroup
		if err := json.Unmarshal(data, &groups); err == nil {
			return groups, nil
		}
		_ = d.Cache.Delete(key)
	}
	groups, err := d.Next.ListByGoverningBody(ctx, governingBodyID, activeOnly)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(groups); err == nil {
		_ = d.Cache.Set(key, data, d.TTL)
	}
	return groups, nil
}

type MemberDirectory struct {
	Next  ports.PoliticianRepository
	Cache cache.Cache
	TTL   time.Duration
}

func (d MemberDirectory) GetByIDs(ctx context.Context, ids []int64) ([]entities.Politician, error) {
	return d.Next.GetByIDs(ctx, ids)
}

func (d MemberDirectory) ListActiveByConference(ctx context.Context, conferenceID int64) ([]entities.Politician, error) {
	key := fmt.Sprintf("members:conf:%d", conferenceID)
	if data, found := d.Cache.Get(key); found {
		var politicians []entities.Politician
		if err := json.Unmarshal(data, &politicians); err == nil {
			return politicians, nil
		}
		_ = d.Cache.Delete(key)
	}
	politicians, err := d.Next.ListActiveByConference(ctx, conferenceID)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(politicians); err == nil {
		_ = d.Cache.Set(key, data, d.TTL)
	}
	return politicians, nil
}
