package validation

import (
	"context"
	"fmt"
	"strings"

	"github.com/commhealth/recordkit/pkg/async"
	"github.com/commhealth/recordkit/pkg/docstore"
)

// Store is the record database surface the checks consume: a keyed lookup
// against the attribute index and a multi-get of full documents.
type Store interface {
	QueryView(ctx context.Context, view, key string) ([]docstore.Row, error)
	FetchDocs(ctx context.Context, ids []string) ([]docstore.Doc, error)
}

// fieldKeys builds one index key per field from the attribute map. It
// reports false when any field is absent or blank, in which case there is
// nothing to compare against.
func fieldKeys(attrs map[string]any, fields []string) ([]string, bool) {
	keys := make([]string, 0, len(fields))
	for _, field := range fields {
		value, ok := attrs[field]
		if !ok || value == nil || strings.TrimSpace(fmt.Sprint(value)) == "" {
			return nil, false
		}
		keys = append(keys, docstore.Key(field, value))
	}
	return keys, true
}

// matchingDocs finds every other document matching all keys: one keyed view
// lookup per key (the lookups are independent and read-only, so they run
// concurrently), an intersection of the returned id sets, exclusion of the
// document's own id, then a fetch of the surviving candidates.
func (v *Validator) matchingDocs(ctx context.Context, ownID string, keys []string) ([]docstore.Doc, error) {
	futures := make([]*async.Future[[]docstore.Row], len(keys))
	for i, key := range keys {
		futures[i] = async.Go(ctx, key, func(ctx context.Context, key string) ([]docstore.Row, error) {
			return v.store.QueryView(ctx, docstore.ViewRecordsByKey, key)
		})
	}

	rowSets, err := async.WaitAll(futures...)
	if err != nil {
		return nil, err
	}

	ids := intersectIDs(rowSets)
	filtered := ids[:0]
	for _, id := range ids {
		if id != ownID {
			filtered = append(filtered, id)
		}
	}
	if len(filtered) == 0 {
		return nil, nil
	}

	return v.store.FetchDocs(ctx, filtered)
}

// intersectIDs returns the ids present in every row set, keeping the order
// of the first set. All fields must match the same document, so this is a
// set intersection, not a union.
func intersectIDs(rowSets [][]docstore.Row) []string {
	if len(rowSets) == 0 {
		return nil
	}

	var ids []string
	for _, row := range rowSets[0] {
		ids = append(ids, row.ID)
	}

	for _, rows := range rowSets[1:] {
		present := make(map[string]struct{}, len(rows))
		for _, row := range rows {
			present[row.ID] = struct{}{}
		}
		kept := ids[:0]
		for _, id := range ids {
			if _, ok := present[id]; ok {
				kept = append(kept, id)
			}
		}
		ids = kept
	}

	return ids
}

// ownDocID extracts the document's own id from the attribute map so lookups
// never count the document as its own duplicate.
func ownDocID(attrs map[string]any) string {
	if id, ok := attrs["_id"].(string); ok {
		return id
	}
	return ""
}
