// Package search keeps an Elasticsearch copy of the menu for fuzzy lookup.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"
	"github.com/google/uuid"

	"github.com/padipos/padipos/internal/models"
	"github.com/padipos/padipos/pkg/logging"
)

func NewClient(ctx context.Context, addr, user, password string) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{addr},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	res, err := client.Info(client.Info.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if err := responseError(res); err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}

	logging.FromContext(ctx).Info("elasticsearch_connected", "address", addr)
	return client, nil
}

func responseError(res *esapi.Response) error {
	if !res.IsError() {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
	return fmt.Errorf("%s: %s", res.Status(), bytes.TrimSpace(body))
}

// MenuIndex implements full-text search over menu items. Documents are keyed
// by menu item id.
type MenuIndex struct {
	ES    *elasticsearch.Client
	Index string
}

func NewMenuIndex(es *elasticsearch.Client, index string) *MenuIndex {
	return &MenuIndex{ES: es, Index: index}
}

var menuMapping = map[string]any{
	"mappings": map[string]any{
		"properties": map[string]any{
			"id":          map[string]any{"type": "keyword"},
			"name":        map[string]any{"type": "text"},
			"description": map[string]any{"type": "text"},
			"category": map[string]any{
				"type":   "text",
				"fields": map[string]any{"keyword": map[string]any{"type": "keyword"}},
			},
			"price": map[string]any{"type": "long"},
			"image": map[string]any{"type": "keyword", "index": false},
		},
	},
}

// EnsureIndex creates the index with its mapping unless it exists.
func (m *MenuIndex) EnsureIndex(ctx context.Context) error {
	res, err := m.ES.Indices.Exists([]string{m.Index}, m.ES.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("index exists %s: %w", m.Index, err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	body, err := encode(menuMapping)
	if err != nil {
		return err
	}
	res, err = m.ES.Indices.Create(m.Index,
		m.ES.Indices.Create.WithContext(ctx),
		m.ES.Indices.Create.WithBody(body),
	)
	if err != nil {
		return fmt.Errorf("create index %s: %w", m.Index, err)
	}
	defer res.Body.Close()
	if err := responseError(res); err != nil {
		return fmt.Errorf("create index %s: %w", m.Index, err)
	}
	return nil
}

// Reset drops the index with every document in it and creates it empty.
func (m *MenuIndex) Reset(ctx context.Context) error {
	res, err := m.ES.Indices.Delete([]string{m.Index}, m.ES.Indices.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete index %s: %w", m.Index, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusNotFound {
		if err := responseError(res); err != nil {
			return fmt.Errorf("delete index %s: %w", m.Index, err)
		}
	}
	return m.EnsureIndex(ctx)
}

func (m *MenuIndex) IndexMenuItem(ctx context.Context, item models.MenuItem) error {
	body, err := encode(item)
	if err != nil {
		return err
	}

	res, err := m.ES.Index(m.Index, body,
		m.ES.Index.WithContext(ctx),
		m.ES.Index.WithDocumentID(item.ID.String()),
	)
	if err != nil {
		return fmt.Errorf("index menu item %s: %w", item.ID, err)
	}
	defer res.Body.Close()
	if err := responseError(res); err != nil {
		return fmt.Errorf("index menu item %s: %w", item.ID, err)
	}
	return nil
}

// RemoveMenuItem deletes the document. A document that is already gone is
// not an error.
func (m *MenuIndex) RemoveMenuItem(ctx context.Context, id uuid.UUID) error {
	res, err := m.ES.Delete(m.Index, id.String(), m.ES.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete menu item %s: %w", id, err)
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return nil
	}
	if err := responseError(res); err != nil {
		return fmt.Errorf("delete menu item %s: %w", id, err)
	}
	return nil
}

func (m *MenuIndex) Search(ctx context.Context, query string, size int) ([]models.MenuItem, error) {
	body, err := encode(map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "description", "category"},
				"fuzziness": "AUTO",
			},
		},
		"size": size,
	})
	if err != nil {
		return nil, err
	}

	res, err := m.ES.Search(
		m.ES.Search.WithContext(ctx),
		m.ES.Search.WithIndex(m.Index),
		m.ES.Search.WithBody(body),
	)
	if err != nil {
		return nil, fmt.Errorf("search menu: %w", err)
	}
	defer res.Body.Close()
	if err := responseError(res); err != nil {
		return nil, fmt.Errorf("search menu: %w", err)
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source models.MenuItem `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	items := make([]models.MenuItem, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		items[i] = hit.Source
	}
	return items, nil
}

func encode(v any) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return &buf, nil
}
