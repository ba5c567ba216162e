package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/fadedpez/tablejack/internal/logging"
	"github.com/fadedpez/tablejack/pkg/entities"
)

// ElasticsearchConfig holds configuration options for the Elasticsearch repository
type ElasticsearchConfig struct {
	URL      string
	Username string
	Password string
	Index    string
}

// DefaultElasticsearchConfig returns a default configuration for Elasticsearch
func DefaultElasticsearchConfig() *ElasticsearchConfig {
	return &ElasticsearchConfig{
		URL:   "http://localhost:9200",
		Index: "tablejack_hands",
	}
}

const handIndexMapping = `{
	"mappings": {
		"properties": {
			"id": { "type": "keyword" },
			"sessionId": { "type": "keyword" },
			"roundId": { "type": "keyword" },
			"seatId": { "type": "keyword" },
			"handIndex": { "type": "integer" },
			"bet": { "type": "long" },
			"payout": { "type": "long" },
			"outcome": { "type": "keyword" },
			"playerValue": { "type": "integer" },
			"dealerValue": { "type": "integer" },
			"isDouble": { "type": "boolean" },
			"isSplit": { "type": "boolean" },
			"recordedAt": { "type": "date" },
			"seq": { "type": "long" }
		}
	}
}`

// handDocument is a hand record as stored in the index. Seq orders records
// that share a recordedAt timestamp.
type handDocument struct {
	entities.HandRecord
	Seq int64 `json:"seq"`
}

// ElasticsearchRepository decorates another Repository. Every hand record is
// also indexed in Elasticsearch, and history queries are served from there.
// Sessions stay in the base repository.
type ElasticsearchRepository struct {
	baseRepo Repository
	client   *elasticsearch.Client
	index    string
	log      *logging.Logger
	seq      atomic.Int64
}

// NewElasticsearchRepository creates the decorator and makes sure the index exists
func NewElasticsearchRepository(ctx context.Context, baseRepo Repository, config *ElasticsearchConfig, logger *logging.Logger) (*ElasticsearchRepository, error) {
	if config == nil {
		config = DefaultElasticsearchConfig()
	}
	if logger == nil {
		logger = logging.Default
	}

	cfg := elasticsearch.Config{
		Addresses: []string{config.URL},
	}
	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating Elasticsearch client: %w", err)
	}

	index := config.Index
	if index == "" {
		index = DefaultElasticsearchConfig().Index
	}

	repo := &ElasticsearchRepository{
		baseRepo: baseRepo,
		client:   client,
		index:    index,
		log:      logger.WithPrefix("sessions-es"),
	}
	repo.seq.Store(time.Now().UnixNano())
	if err := repo.initIndex(ctx); err != nil {
		return nil, fmt.Errorf("error initializing index: %w", err)
	}
	return repo, nil
}

func (r *ElasticsearchRepository) initIndex(ctx context.Context) error {
	res, err := r.client.Indices.Exists([]string{r.index}, r.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("error checking if index exists: %w", err)
	}
	res.Body.Close()

	if res.StatusCode != http.StatusNotFound {
		return nil
	}

	req := esapi.IndicesCreateRequest{
		Index: r.index,
		Body:  bytes.NewReader([]byte(handIndexMapping)),
	}
	res, err = req.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("error creating index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error creating index: %s", res.String())
	}
	r.log.Info("created index %s", r.index)
	return nil
}

// GetSession delegates to the base repository
func (r *ElasticsearchRepository) GetSession(ctx context.Context, sessionID string) (*entities.Session, error) {
	return r.baseRepo.GetSession(ctx, sessionID)
}

// SaveSession delegates to the base repository
func (r *ElasticsearchRepository) SaveSession(ctx context.Context, session *entities.Session) error {
	return r.baseRepo.SaveSession(ctx, session)
}

// GetTopSessions delegates to the base repository
func (r *ElasticsearchRepository) GetTopSessions(ctx context.Context, limit int) ([]*entities.Session, error) {
	return r.baseRepo.GetTopSessions(ctx, limit)
}

// AddHandRecord stores the record in the base repository, then indexes it.
// A failed index is logged; the base repository stays the source of truth.
func (r *ElasticsearchRepository) AddHandRecord(ctx context.Context, record *entities.HandRecord) error {
	if err := r.baseRepo.AddHandRecord(ctx, record); err != nil {
		return err
	}
	if err := r.IndexHandRecord(ctx, record); err != nil {
		r.log.Warn("hand %s not indexed: %v", record.ID, err)
	}
	return nil
}

// IndexHandRecord writes one record to the index
func (r *ElasticsearchRepository) IndexHandRecord(ctx context.Context, record *entities.HandRecord) error {
	body, err := json.Marshal(handDocument{HandRecord: *record, Seq: r.seq.Add(1)})
	if err != nil {
		return fmt.Errorf("error marshaling hand record: %w", err)
	}

	res, err := r.client.Index(
		r.index,
		bytes.NewReader(body),
		r.client.Index.WithContext(ctx),
		r.client.Index.WithDocumentID(record.ID),
		r.client.Index.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("error indexing hand record: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing hand record: %s", res.String())
	}
	return nil
}

// GetHandRecords searches the index for a session's history. When the search
// fails the base repository answers instead.
func (r *ElasticsearchRepository) GetHandRecords(ctx context.Context, sessionID string, limit int) ([]*entities.HandRecord, error) {
	records, err := r.searchHandRecords(ctx, sessionID, limit)
	if err != nil {
		r.log.Warn("history search for %s failed, using base repository: %v", sessionID, err)
		return r.baseRepo.GetHandRecords(ctx, sessionID, limit)
	}
	return records, nil
}

func (r *ElasticsearchRepository) searchHandRecords(ctx context.Context, sessionID string, limit int) ([]*entities.HandRecord, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"term": map[string]interface{}{"sessionId": sessionID},
		},
		"sort": []interface{}{
			map[string]interface{}{"recordedAt": map[string]string{"order": "desc"}},
			map[string]interface{}{"seq": map[string]string{"order": "desc"}},
		},
	}
	body, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	res, err := r.client.Search(
		r.client.Search.WithContext(ctx),
		r.client.Search.WithIndex(r.index),
		r.client.Search.WithBody(bytes.NewReader(body)),
		r.client.Search.WithSize(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("error searching hand records: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("error searching hand records: %s", res.String())
	}

	var result struct {
		Hits struct {
			Hits []struct {
				Source handDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error parsing hand records: %w", err)
	}

	records := make([]*entities.HandRecord, 0, len(result.Hits.Hits))
	for i := range result.Hits.Hits {
		records = append(records, &result.Hits.Hits[i].Source.HandRecord)
	}
	return records, nil
}

// Close closes the base repository
func (r *ElasticsearchRepository) Close() error {
	return r.baseRepo.Close()
}
