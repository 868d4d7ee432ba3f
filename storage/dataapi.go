package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// dataAPIPageSize is the server-side cap on documents per find call, so
// List pages through with an _id cursor until a short page comes back.
const dataAPIPageSize = 1000

// DataAPIStore talks to an Atlas-style document HTTP Data API: one POST
// per action ("findOne", "insertOne", ...) with the api key in a header.
// Document shape matches the Mongo adapter ({_id, v}), with v carried as
// base64 by the JSON codec.
type DataAPIStore struct {
	endpoint   string
	apiKey     string
	dataSource string
	database   string
	collection string
	client     *http.Client
	pageSize   int
}

func NewDataAPIStore(endpoint, apiKey, dataSource, database, collection string) *DataAPIStore {
	return &DataAPIStore{
		endpoint:   endpoint,
		apiKey:     apiKey,
		dataSource: dataSource,
		database:   database,
		collection: collection,
		client:     &http.Client{Timeout: 30 * time.Second},
		pageSize:   dataAPIPageSize,
	}
}

type dataAPIRecord struct {
	Key   string `json:"_id"`
	Value []byte `json:"v"`
}

type dataAPIRequest struct {
	DataSource  string         `json:"dataSource"`
	Database    string         `json:"database"`
	Collection  string         `json:"collection"`
	Filter      map[string]any `json:"filter,omitempty"`
	Replacement *dataAPIRecord `json:"replacement,omitempty"`
	Upsert      bool           `json:"upsert,omitempty"`
	Sort        map[string]any `json:"sort,omitempty"`
	Limit       int            `json:"limit,omitempty"`
}

type dataAPIResponse struct {
	Document  *dataAPIRecord  `json:"document"`
	Documents []dataAPIRecord `json:"documents"`
}

func (s *DataAPIStore) call(ctx context.Context, action string, payload dataAPIRequest) (*dataAPIResponse, error) {
	payload.DataSource = s.dataSource
	payload.Database = s.database
	payload.Collection = s.collection

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.endpoint+"/action/"+action, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("api-key", s.apiKey)

	response, err := s.client.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(response.Body, 512))
		return nil, fmt.Errorf("data api %s: status %d: %s", action, response.StatusCode, detail)
	}

	var decoded dataAPIResponse
	if err := json.NewDecoder(response.Body).Decode(&decoded); err != nil {
		return nil, err
	}
	return &decoded, nil
}

func (s *DataAPIStore) Get(ctx context.Context, key string) ([]byte, error) {
	response, err := s.call(ctx, "findOne", dataAPIRequest{
		Filter: map[string]any{"_id": key},
	})
	if err != nil {
		return nil, err
	}
	if response.Document == nil {
		return nil, ErrKeyNotFound
	}
	return response.Document.Value, nil
}

func (s *DataAPIStore) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.call(ctx, "replaceOne", dataAPIRequest{
		Filter:      map[string]any{"_id": key},
		Replacement: &dataAPIRecord{Key: key, Value: value},
		Upsert:      true,
	})
	return err
}

func (s *DataAPIStore) Delete(ctx context.Context, key string) error {
	_, err := s.call(ctx, "deleteOne", dataAPIRequest{
		Filter: map[string]any{"_id": key},
	})
	return err
}

// List pages through keys at and above the prefix in ascending _id order,
// resuming after the last key seen. The scan ends client-side at the first
// key outside the prefix: an exclusive upper bound would need a sentinel
// byte that is not valid UTF-8, which the JSON wire format cannot carry.
func (s *DataAPIStore) List(ctx context.Context, prefix string) ([]Record, error) {
	var records []Record
	lowerBound := prefix
	for {
		response, err := s.call(ctx, "find", dataAPIRequest{
			Filter: map[string]any{"_id": map[string]any{"$gte": lowerBound}},
			Sort:   map[string]any{"_id": 1},
			Limit:  s.pageSize,
		})
		if err != nil {
			return nil, err
		}
		for _, document := range response.Documents {
			if !strings.HasPrefix(document.Key, prefix) {
				return records, nil
			}
			records = append(records, Record{Key: document.Key, Value: document.Value})
		}
		if len(response.Documents) < s.pageSize {
			return records, nil
		}
		lowerBound = response.Documents[len(response.Documents)-1].Key + "\x00"
	}
}

func (s *DataAPIStore) DeleteKeys(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := s.call(ctx, "deleteMany", dataAPIRequest{
		Filter: map[string]any{"_id": map[string]any{"$in": keys}},
	})
	return err
}

// Close is a no-op; the adapter holds no connection state.
func (s *DataAPIStore) Close() error {
	return nil
}
