package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/opensearch-project/opensearch-go/v2"
)

// OpenSearchConfig holds connection parameters for the opensearch-backed store.
type OpenSearchConfig struct {
	Addresses    []string `env:"OPENSEARCH_ADDRESSES,required"`
	Username     string   `env:"OPENSEARCH_USERNAME"`
	Password     string   `env:"OPENSEARCH_PASSWORD"`
	Index        string   `env:"OPENSEARCH_INDEX" envDefault:"records"`
	MaxRetries   int      `env:"OPENSEARCH_MAX_RETRIES" envDefault:"3"`
	DisableRetry bool     `env:"OPENSEARCH_DISABLE_RETRY" envDefault:"false"`
}

// ConnectOpenSearch creates an OpenSearch client and verifies cluster
// connectivity with an Info call.
func ConnectOpenSearch(ctx context.Context, cfg OpenSearchConfig) (*opensearch.Client, error) {
	client, err := opensearch.NewClient(opensearch.Config{
		Addresses:    cfg.Addresses,
		Username:     cfg.Username,
		Password:     cfg.Password,
		MaxRetries:   cfg.MaxRetries,
		DisableRetry: cfg.DisableRetry,
	})
	if err != nil {
		return nil, errors.Join(ErrOpenSearchConnectionFailed, err)
	}

	res, err := client.Info(client.Info.WithContext(ctx))
	if err != nil {
		return nil, errors.Join(ErrOpenSearchConnectionFailed, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, errors.Join(ErrOpenSearchConnectionFailed, errors.New(res.Status()))
	}

	return client, nil
}

// OpenSearchStore serves keyed index lookups and document multi-gets from an
// OpenSearch index. The search_keys field must be mapped as keyword.
type OpenSearchStore struct {
	client *opensearch.Client
	index  string
}

// NewOpenSearchStore wraps an existing client and index name.
func NewOpenSearchStore(client *opensearch.Client, index string) *OpenSearchStore {
	return &OpenSearchStore{client: client, index: index}
}

// maxViewHits bounds a single keyed lookup. Attribute keys are highly
// selective; hitting the bound indicates an indexing problem, not a real
// result set.
const maxViewHits = 10000

// QueryView returns the ids of records whose search_keys contain key.
func (s *OpenSearchStore) QueryView(ctx context.Context, view, key string) ([]Row, error) {
	if view != ViewRecordsByKey {
		return nil, errors.Join(ErrUnknownView, errors.New(view))
	}

	body, err := json.Marshal(map[string]any{
		"query":   map[string]any{"term": map[string]any{"search_keys": key}},
		"_source": false,
		"size":    maxViewHits,
	})
	if err != nil {
		return nil, errors.Join(ErrQueryFailed, err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, errors.Join(ErrQueryFailed, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, errors.Join(ErrQueryFailed, errors.New(res.Status()))
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, errors.Join(ErrQueryFailed, err)
	}
	return parsed.rows(), nil
}

// FetchDocs returns the full documents for the given ids. Missing ids are
// silently absent from the result.
func (s *OpenSearchStore) FetchDocs(ctx context.Context, ids []string) ([]Doc, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(map[string]any{"ids": ids})
	if err != nil {
		return nil, errors.Join(ErrFetchFailed, err)
	}

	res, err := s.client.Mget(
		bytes.NewReader(body),
		s.client.Mget.WithContext(ctx),
		s.client.Mget.WithIndex(s.index),
	)
	if err != nil {
		return nil, errors.Join(ErrFetchFailed, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, errors.Join(ErrFetchFailed, errors.New(res.Status()))
	}

	var parsed mgetResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, errors.Join(ErrFetchFailed, err)
	}
	return parsed.docs(), nil
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID string `json:"_id"`
		} `json:"hits"`
	} `json:"hits"`
}

func (r searchResponse) rows() []Row {
	rows := make([]Row, len(r.Hits.Hits))
	for i, h := range r.Hits.Hits {
		rows[i] = Row{ID: h.ID}
	}
	return rows
}

// indexedDoc is the _source shape of a record in the index; reported_date is
// stored as epoch milliseconds.
type indexedDoc struct {
	Form         string         `json:"form"`
	ReportedDate int64          `json:"reported_date"`
	Errors       []Fault        `json:"errors"`
	Fields       map[string]any `json:"fields"`
}

type mgetResponse struct {
	Docs []struct {
		ID     string          `json:"_id"`
		Found  bool            `json:"found"`
		Source json.RawMessage `json:"_source"`
	} `json:"docs"`
}

func (r mgetResponse) docs() []Doc {
	out := make([]Doc, 0, len(r.Docs))
	for _, d := range r.Docs {
		if !d.Found {
			continue
		}
		var src indexedDoc
		if err := json.Unmarshal(d.Source, &src); err != nil {
			continue
		}
		out = append(out, Doc{
			ID:           d.ID,
			Form:         src.Form,
			ReportedDate: time.UnixMilli(src.ReportedDate).UTC(),
			Errors:       src.Errors,
			Fields:       src.Fields,
		})
	}
	return out
}
