package records_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commhealth/recordkit/modules/records"
	"github.com/commhealth/recordkit/pkg/docstore"
	"github.com/commhealth/recordkit/pkg/validation"
)

// memStore is an in-memory validation.Store.
type memStore struct {
	mu   sync.Mutex
	rows map[string][]docstore.Row
	docs map[string]docstore.Doc
	fail bool
}

func newMemStore() *memStore {
	return &memStore{
		rows: make(map[string][]docstore.Row),
		docs: make(map[string]docstore.Doc),
	}
}

func (s *memStore) addDoc(doc docstore.Doc, keys ...string) {
	s.docs[doc.ID] = doc
	for _, key := range keys {
		s.rows[key] = append(s.rows[key], docstore.Row{ID: doc.ID})
	}
}

func (s *memStore) QueryView(_ context.Context, _, key string) ([]docstore.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return nil, errors.New("store unavailable")
	}
	return s.rows[key], nil
}

func (s *memStore) FetchDocs(_ context.Context, ids []string) ([]docstore.Doc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var docs []docstore.Doc
	for _, id := range ids {
		if doc, ok := s.docs[id]; ok {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

func pregRegistry() *records.Registry {
	return records.NewRegistry(map[string][]validation.Spec{
		"PREG": {{
			Property: "patient_id",
			Rule:     `unique("patient_id")`,
			Translations: []validation.Message{
				{Locale: "en", Content: "Patient id must be unique"},
			},
		}},
	})
}

func TestValidateRecord(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("valid document", func(t *testing.T) {
		svc := records.NewService(pregRegistry(), validation.New(newMemStore()))
		errs, err := svc.ValidateRecord(ctx, "PREG", map[string]any{"patient_id": "X"})
		require.NoError(t, err)
		assert.Empty(t, errs)
	})

	t.Run("invalid document lists failures", func(t *testing.T) {
		store := newMemStore()
		store.addDoc(docstore.Doc{ID: "other"}, "patient_id:x")
		svc := records.NewService(pregRegistry(), validation.New(store))

		errs, err := svc.ValidateRecord(ctx, "PREG", map[string]any{"_id": "self", "patient_id": "X"})
		require.NoError(t, err)
		require.Len(t, errs, 1)
		assert.Equal(t, "invalid_patient_id_unique", errs[0].Code)
	})

	t.Run("unknown form", func(t *testing.T) {
		svc := records.NewService(pregRegistry(), validation.New(newMemStore()))
		_, err := svc.ValidateRecord(ctx, "NOPE", map[string]any{})
		assert.ErrorIs(t, err, records.ErrUnknownForm)
	})

	t.Run("store failure is a system fault", func(t *testing.T) {
		store := newMemStore()
		store.fail = true
		svc := records.NewService(pregRegistry(), validation.New(store))
		_, err := svc.ValidateRecord(ctx, "PREG", map[string]any{"patient_id": "X"})
		require.Error(t, err)
		assert.NotErrorIs(t, err, records.ErrUnknownForm)
	})

	t.Run("form ignores are applied", func(t *testing.T) {
		registry, err := records.LoadRegistry(rulesetReader(t))
		require.NoError(t, err)

		store := newMemStore()
		store.addDoc(docstore.Doc{ID: "other"}, "patient_id:x")
		svc := records.NewService(registry, validation.New(store))

		// secondary_contact is in the form's ignore list; a failing rule on
		// it must not surface.
		errs, err := svc.ValidateRecord(ctx, "PREG", map[string]any{
			"_id":        "self",
			"patient_id": "X",
			"week":       "10",
		})
		require.NoError(t, err)
		require.Len(t, errs, 1)
		assert.Equal(t, "invalid_patient_id_unique", errs[0].Code)
	})
}
