package results

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/felttable/blackjack/pkg/entities"
)

// ElasticsearchConfig holds connection options for the Elasticsearch
// repository
type ElasticsearchConfig struct {
	URL         string
	Username    string
	Password    string
	IndexPrefix string
}

// ElasticsearchRepository decorates another Repository: every saved round
// result is also indexed into Elasticsearch for search and analytics. Reads
// are served by the wrapped repository; the index is write-only here.
type ElasticsearchRepository struct {
	base   Repository
	client *elasticsearch.Client
	index  string
}

// esRoundDocument is the shape of an indexed round result
type esRoundDocument struct {
	SessionID       string             `json:"session_id"`
	Creator         string             `json:"creator"`
	CompletedAt     time.Time          `json:"completed_at"`
	DealerTotal     int                `json:"dealer_total"`
	DealerBusted    bool               `json:"dealer_busted"`
	DealerBlackjack bool               `json:"dealer_blackjack"`
	Players         []esPlayerDocument `json:"players"`
}

type esPlayerDocument struct {
	Name   string `json:"name"`
	Result string `json:"result"`
	Total  int    `json:"total"`
	Payout int    `json:"payout"`
}

// NewElasticsearchRepository creates a repository that indexes into
// Elasticsearch on top of base
func NewElasticsearchRepository(base Repository, config *ElasticsearchConfig) (*ElasticsearchRepository, error) {
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

	prefix := config.IndexPrefix
	if prefix == "" {
		prefix = "blackjack"
	}

	return &ElasticsearchRepository{
		base:   base,
		client: client,
		index:  prefix + "-results",
	}, nil
}

// SaveRoundResult stores the result in the base repository and indexes it.
// An indexing failure is logged but does not fail the save; the base
// repository remains the source of truth.
func (r *ElasticsearchRepository) SaveRoundResult(ctx context.Context, result *entities.RoundResult) error {
	if err := r.base.SaveRoundResult(ctx, result); err != nil {
		return err
	}

	doc := esRoundDocument{
		SessionID:       result.SessionID,
		Creator:         result.Creator,
		CompletedAt:     result.CompletedAt,
		DealerTotal:     result.DealerTotal,
		DealerBusted:    result.DealerBusted,
		DealerBlackjack: result.DealerBlackjack,
	}
	for _, pr := range result.PlayerResults {
		doc.Players = append(doc.Players, esPlayerDocument{
			Name:   pr.Name,
			Result: pr.Result.String(),
			Total:  pr.Total,
			Payout: pr.Payout,
		})
	}

	body, err := json.Marshal(doc)
	if err != nil {
		logrus.WithError(err).Error("failed to marshal round result for indexing")
		return nil
	}

	req := esapi.IndexRequest{
		Index: r.index,
		Body:  bytes.NewReader(body),
	}
	res, err := req.Do(ctx, r.client)
	if err != nil {
		logrus.WithError(err).Error("failed to index round result")
		return nil
	}
	defer res.Body.Close()

	if res.IsError() {
		logrus.WithField("status", res.Status()).Error("Elasticsearch rejected round result")
	}
	return nil
}

// GetSessionResults delegates to the base repository
func (r *ElasticsearchRepository) GetSessionResults(ctx context.Context, sessionID string, limit int) ([]*entities.RoundResult, error) {
	return r.base.GetSessionResults(ctx, sessionID, limit)
}

// GetPlayerResults delegates to the base repository
func (r *ElasticsearchRepository) GetPlayerResults(ctx context.Context, name string) ([]*entities.RoundResult, error) {
	return r.base.GetPlayerResults(ctx, name)
}

// Close closes the base repository
func (r *ElasticsearchRepository) Close() error {
	return r.base.Close()
}
