package server

import (
	"encoding/json"
	"net/http"

	apperrors "options-advisor/internal/errors"
	"options-advisor/internal/models"
	"options-advisor/internal/planner"
	"options-advisor/internal/selection"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "options-advisor",
	})
}

func (s *Server) handleStrategyRecommend(w http.ResponseWriter, r *http.Request) {
	var req strategyRecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.validate(); err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	tolerance := s.dteTolerance
	if req.DTETolerance != nil {
		tolerance = *req.DTETolerance
	}

	data, err := s.data.ValidateAndFetch(r.Context(), req.Ticker, req.DTE, tolerance)
	if err != nil {
		s.writeDataError(w, err)
		return
	}

	engineReq := req.toEngineRequest()
	engineReq.Contracts = data.Snapshot.Contracts
	engineReq.UnderlyingPrice = data.UnderlyingPrice
	engineReq.DataTimestamp = data.Snapshot.AsOf
	if engineReq.IVRank == nil {
		engineReq.IVRank = data.IVRank
	}

	result := s.recommender.Recommend(engineReq)
	result.Warnings = append(data.Warnings, result.Warnings...)

	s.writeJSON(w, http.StatusOK, result)
}

// strikesResponse bundles raw spread candidates with the inputs that
// produced them.
type strikesResponse struct {
	Ticker          string                      `json:"ticker"`
	UnderlyingPrice string                      `json:"underlying_price"`
	OptionType      string                      `json:"option_type"`
	Bias            string                      `json:"bias"`
	DTE             int                         `json:"dte"`
	TargetWidth     int                         `json:"target_width"`
	Candidates      []selection.SpreadCandidate `json:"candidates"`
	Warnings        []string                    `json:"warnings,omitempty"`
}

func (s *Server) handleStrikesRecommend(w http.ResponseWriter, r *http.Request) {
	var req strikesRecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.validate(); err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	tolerance := s.dteTolerance
	if req.DTETolerance != nil {
		tolerance = *req.DTETolerance
	}

	data, err := s.data.ValidateAndFetch(r.Context(), req.Ticker, req.DTE, tolerance)
	if err != nil {
		s.writeDataError(w, err)
		return
	}

	optType, _ := models.ParseOptionType(req.OptionType)
	bias, _ := models.ParseBias(req.Bias)

	width := s.selector.SpreadWidthForPrice(data.UnderlyingPrice, req.TargetWidth)
	regime := s.selector.DetermineIVRegime(data.IVRank)

	candidates := s.selector.RecommendVerticalSpreads(
		data.Snapshot.Contracts, data.UnderlyingPrice, optType, bias, width,
		selection.SpreadOptions{MinCreditPct: req.MinCreditPct, IVRegime: regime})

	s.writeJSON(w, http.StatusOK, strikesResponse{
		Ticker:          data.Ticker.Symbol,
		UnderlyingPrice: data.UnderlyingPrice.String(),
		OptionType:      string(optType),
		Bias:            string(bias),
		DTE:             data.Snapshot.DTE,
		TargetWidth:     width,
		Candidates:      candidates,
		Warnings:        data.Warnings,
	})
}

func (s *Server) handleTradeCalc(w http.ResponseWriter, r *http.Request) {
	var req tradeCalcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.validate(); err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	optType, _ := models.ParseOptionType(req.OptionType)
	bias, _ := models.ParseBias(req.Bias)

	var plan planner.Plan
	if req.Strategy == "vertical" {
		plan = planner.CalculateVerticalSpread(planner.VerticalSpreadInput{
			Symbol:          req.Symbol,
			UnderlyingPrice: req.UnderlyingPrice,
			LongStrike:      *req.LongStrike,
			ShortStrike:     *req.ShortStrike,
			LongPremium:     *req.LongPremium,
			ShortPremium:    *req.ShortPremium,
			OptionType:      optType,
			Bias:            bias,
			Contracts:       req.Contracts,
			DTE:             req.DTE,
			LongDelta:       req.LongDelta,
			ShortDelta:      req.ShortDelta,
			AccountSize:     req.AccountSize,
			RiskPct:         req.RiskPct,
		})
	} else {
		plan = planner.CalculateLongOption(planner.LongOptionInput{
			Symbol:          req.Symbol,
			UnderlyingPrice: req.UnderlyingPrice,
			Strike:          *req.Strike,
			Premium:         *req.Premium,
			OptionType:      optType,
			Bias:            bias,
			Contracts:       req.Contracts,
			DTE:             req.DTE,
			Delta:           req.Delta,
			AccountSize:     req.AccountSize,
			RiskPct:         req.RiskPct,
		})
	}

	s.writeJSON(w, http.StatusOK, plan)
}

// writeDataError maps domain sentinel errors onto HTTP statuses.
func (s *Server) writeDataError(w http.ResponseWriter, err error) {
	switch {
	case apperrors.Is(err, apperrors.ErrTickerNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	case apperrors.Is(err, apperrors.ErrNoPriceData), apperrors.Is(err, apperrors.ErrNoChainData):
		s.writeError(w, http.StatusNotFound, err.Error())
	default:
		s.log.Error().Err(err).Msg("data fetch failed")
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}
