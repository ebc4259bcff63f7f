package api

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/shopper-spectrum/internal/analytics"
	"github.com/Veraticus/shopper-spectrum/internal/common"
	"github.com/Veraticus/shopper-spectrum/internal/metrics"
	"github.com/Veraticus/shopper-spectrum/internal/model"
)

const maxProducts = 1000

// RecommendationsResult is the payload of GET /api/v1/recommendations.
type RecommendationsResult struct {
	Product         string                     `json:"product"`
	Message         string                     `json:"message,omitempty"`
	Recommendations []analytics.Recommendation `json:"recommendations"`
}

// PredictionResult is the payload of GET /api/v1/segments/predict.
type PredictionResult struct {
	Input   model.RFM            `json:"input"`
	Segment string               `json:"segment"`
	Profile model.SegmentProfile `json:"profile"`
	Cluster int                  `json:"cluster"`
}

// ProfileResult is one cluster in GET /api/v1/segments/profiles.
type ProfileResult struct {
	model.SegmentProfile
	Segment string `json:"segment"`
}

// ProfilesResult is the payload of GET /api/v1/segments/profiles.
type ProfilesResult struct {
	Profiles   []ProfileResult      `json:"profiles"`
	Population model.SegmentProfile `json:"population"`
}

// ProductsResult is the payload of GET /api/v1/products.
type ProductsResult struct {
	Products []string `json:"products"`
	Total    int      `json:"total"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	start := time.Now()
	respondData(w, map[string]any{
		"status":    "ok",
		"fitted_at": s.core.FittedAt(),
		"summary":   s.core.Summary(),
	}, start)
}

func (s *Server) recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	query := r.URL.Query()

	product := strings.TrimSpace(query.Get("product"))
	if product == "" {
		metrics.RecordQuery(metrics.QueryRecommend, metrics.OutcomeBadInput, start)
		respondError(w, http.StatusBadRequest, CodeInvalidParameter, "product is required", nil)
		return
	}

	n := 0
	if raw := query.Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			metrics.RecordQuery(metrics.QueryRecommend, metrics.OutcomeBadInput, start)
			respondError(w, http.StatusBadRequest, CodeInvalidParameter, "n must be a positive integer", err)
			return
		}
		n = parsed
	}

	recs, err := s.core.RecommendDetailed(product, n)
	switch {
	case common.IsQueryMiss(err):
		metrics.RecordQuery(metrics.QueryRecommend, metrics.OutcomeMiss, start)
		respondError(w, http.StatusNotFound, CodeUnknownProduct, common.UserMessage(err), err)
		return
	case err != nil:
		metrics.RecordQuery(metrics.QueryRecommend, metrics.OutcomeError, start)
		respondError(w, http.StatusInternalServerError, CodeInternal, "failed to compute recommendations", err)
		return
	}

	result := RecommendationsResult{Product: product, Recommendations: recs}
	outcome := metrics.OutcomeOK
	if len(recs) == 0 {
		result.Recommendations = []analytics.Recommendation{}
		result.Message = common.UserMessage(common.ErrNoSimilarItems)
		outcome = metrics.OutcomeEmpty
	}

	metrics.RecordQuery(metrics.QueryRecommend, outcome, start)
	respondData(w, result, start)
}

func (s *Server) predict(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	query := r.URL.Query()

	var values [3]float64
	for i, name := range []string{"recency", "frequency", "monetary"} {
		v, err := parseNonNegative(query.Get(name))
		if err != nil {
			metrics.RecordQuery(metrics.QueryPredict, metrics.OutcomeBadInput, start)
			respondError(w, http.StatusBadRequest, CodeInvalidParameter, fmt.Sprintf("%s: %v", name, err), err)
			return
		}
		values[i] = v
	}

	cluster, err := s.core.PredictSegment(values[0], values[1], values[2])
	switch {
	case errors.Is(err, common.ErrConfiguration):
		metrics.RecordQuery(metrics.QueryPredict, metrics.OutcomeBadInput, start)
		respondError(w, http.StatusBadRequest, CodeInvalidParameter, err.Error(), err)
		return
	case err != nil:
		metrics.RecordQuery(metrics.QueryPredict, metrics.OutcomeError, start)
		respondError(w, http.StatusInternalServerError, CodeInternal, "failed to predict segment", err)
		return
	}

	profile := s.profiles[cluster]
	metrics.RecordQuery(metrics.QueryPredict, metrics.OutcomeOK, start)
	respondData(w, PredictionResult{
		Cluster: cluster,
		Segment: profile.Label(s.population),
		Profile: profile,
		Input: model.RFM{
			Recency:   int(values[0]),
			Frequency: int(values[1]),
			Monetary:  values[2],
		},
	}, start)
}

func (s *Server) segmentProfiles(w http.ResponseWriter, _ *http.Request) {
	start := time.Now()

	result := ProfilesResult{
		Population: s.population,
		Profiles:   make([]ProfileResult, len(s.profiles)),
	}
	for i, p := range s.profiles {
		result.Profiles[i] = ProfileResult{SegmentProfile: p, Segment: p.Label(s.population)}
	}

	metrics.RecordQuery(metrics.QueryProfiles, metrics.OutcomeOK, start)
	respondData(w, result, start)
}

func (s *Server) products(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	query := r.URL.Query()

	limit := maxProducts
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			metrics.RecordQuery(metrics.QueryProducts, metrics.OutcomeBadInput, start)
			respondError(w, http.StatusBadRequest, CodeInvalidParameter, "limit must be a positive integer", err)
			return
		}
		limit = min(parsed, maxProducts)
	}

	products := s.core.Catalog().Search(query.Get("q"))
	total := len(products)
	if len(products) > limit {
		products = products[:limit]
	}
	if products == nil {
		products = []string{}
	}

	metrics.RecordQuery(metrics.QueryProducts, metrics.OutcomeOK, start)
	respondData(w, ProductsResult{Products: products, Total: total}, start)
}

func parseNonNegative(raw string) (float64, error) {
	if raw == "" {
		return 0, errors.New("is required")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.New("must be a number")
	}
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("must be a non-negative number")
	}
	return v, nil
}
