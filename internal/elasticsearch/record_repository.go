package elasticsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/core/search"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/operator"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/rs/zerolog/log"

	"analytics-report-backend/config"
	"analytics-report-backend/internal/dto"
	"analytics-report-backend/internal/model"
	"analytics-report-backend/internal/repository"
)

// keywordFields are mapped as text with a .keyword sub-field by dynamic mapping.
var keywordFields = map[string]bool{
	"source":  true,
	"view_id": true,
	"run_id":  true,
}

type elasticsearchRecordRepository struct {
	esTypedClient *elasticsearch.TypedClient
	indexPrefix   string
}

func NewElasticsearchRecordRepository(cfg *config.Config) (repository.RecordRepository, error) {
	typedClient, err := elasticsearch.NewTypedClient(clientConfig(cfg))
	if err != nil {
		log.Error().Err(err).Msg("Failed to create Typed Elasticsearch Client in Repository")
		return nil, err
	}

	return &elasticsearchRecordRepository{
		esTypedClient: typedClient,
		indexPrefix:   cfg.Elasticsearch.RecordIndex,
	}, nil
}

func termsFilter(field string, values []string) types.Query {
	terms := make([]types.FieldValue, len(values))
	for i, v := range values {
		terms[i] = v
	}
	return types.Query{
		Terms: &types.TermsQuery{
			TermsQuery: map[string]types.TermsQueryField{field: terms},
		},
	}
}

// buildSearchRequest translates req into a typed search body.
func buildSearchRequest(req dto.RecordSearchRequest) *search.Request {
	startTimeStr := req.StartTime.Format(time.RFC3339)
	endTimeStr := req.EndTime.Format(time.RFC3339)

	queryParts := []types.Query{{
		Range: map[string]types.RangeQuery{
			"fetched_at": types.DateRangeQuery{
				Gte: &startTimeStr,
				Lte: &endTimeStr,
			},
		},
	}}

	if req.Query != "" {
		queryParts = append(queryParts, types.Query{
			QueryString: &types.QueryStringQuery{
				Query:  req.Query,
				Fields: []string{"dimensions.*", "source", "view_id"},
				DefaultOperator: &operator.Operator{
					Name: "AND",
				},
			},
		})
	}
	if len(req.Sources) > 0 {
		queryParts = append(queryParts, termsFilter("source.keyword", req.Sources))
	}
	if req.RunID != "" {
		queryParts = append(queryParts, termsFilter("run_id.keyword", []string{req.RunID}))
	}

	from := (req.Page - 1) * req.Size
	order := sortorder.Desc
	if req.SortOrder == "asc" {
		order = sortorder.Asc
	}
	sortField := req.SortBy
	if keywordFields[sortField] {
		sortField = sortField + ".keyword"
	} else if sortField != "fetched_at" && sortField != "@timestamp" && sortField != "row_index" {
		log.Warn().Str("sort_field", req.SortBy).Msg("Attempting to sort on unknown field")
	}

	return &search.Request{
		Query: &types.Query{
			Bool: &types.BoolQuery{
				Filter: queryParts,
			},
		},
		Size: &req.Size,
		From: &from,
		Sort: []types.SortCombinations{
			types.SortOptions{
				SortOptions: map[string]types.FieldSort{
					sortField: {Order: &order},
				},
			},
		},
	}
}

func (r *elasticsearchRecordRepository) Search(ctx context.Context, req dto.RecordSearchRequest) (*dto.RecordSearchResponse, error) {
	indexPattern := fmt.Sprintf("%s-*", r.indexPrefix)

	res, err := r.esTypedClient.Search().
		Index(indexPattern).
		Request(buildSearchRequest(req)).
		Do(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Error executing Elasticsearch search via TypedClient")
		return nil, fmt.Errorf("elasticsearch search failed: %w", err)
	}

	records := make([]model.ReportRecord, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		if hit.Source_ == nil {
			continue
		}
		var record model.ReportRecord
		if err := json.Unmarshal(hit.Source_, &record); err != nil {
			log.Error().Err(err).Msg("Error unmarshalling Elasticsearch hit source")
			continue
		}
		records = append(records, record)
	}

	var total int64
	if res.Hits.Total != nil {
		total = res.Hits.Total.Value
	}
	response := &dto.RecordSearchResponse{
		Records:    records,
		TotalCount: total,
		Page:       req.Page,
		Size:       req.Size,
	}

	log.Debug().Int64("total_hits", response.TotalCount).Int("returned_hits", len(response.Records)).Msg("Elasticsearch search successful")
	return response, nil
}
