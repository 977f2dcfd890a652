package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/amanahdev/zakat-engine/internal/calc"
	"github.com/amanahdev/zakat-engine/internal/config"
	"github.com/amanahdev/zakat-engine/internal/metrics"
	"github.com/amanahdev/zakat-engine/internal/nisab"
	"github.com/amanahdev/zakat-engine/internal/rates"
	"github.com/amanahdev/zakat-engine/internal/tracing"
	"github.com/amanahdev/zakat-engine/internal/zakat"
	"github.com/amanahdev/zakat-engine/pkg/constants"
	"github.com/amanahdev/zakat-engine/pkg/format"
	"github.com/amanahdev/zakat-engine/pkg/numeric"
)

type handler struct {
	logger      *zap.Logger
	conf        *config.Configuration
	provider    *nisab.Provider
	converter   *rates.Converter
	maxBodySize int64
	version     string
}

// NewHandler constructs the HTTP handler that serves the calculation API.
func NewHandler(logger *zap.Logger, conf *config.Configuration, provider *nisab.Provider, converter *rates.Converter, maxBodySize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:      logger,
		conf:        conf,
		provider:    provider,
		converter:   converter,
		maxBodySize: maxBodySize,
		version:     trimmedVersion,
	}

	mux := http.NewServeMux()

	// Calculation endpoints
	mux.HandleFunc("/api/zakat", h.handleZakat)
	mux.HandleFunc("/api/fitrah", h.handleFitrah)

	// Feed state endpoint
	mux.HandleFunc("/api/nisab", h.handleNisab)

	// Config echo for operators (credentials never live in the config)
	mux.HandleFunc("/api/config", h.handleConfig)

	// Version endpoint for client metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	// Prometheus metrics endpoint
	mux.Handle("/metrics", promhttp.Handler())

	return metrics.Middleware(mux)
}

type zakatRequest struct {
	Category string          `json:"category"`
	School   string          `json:"school,omitempty"`
	Income   *incomeRequest  `json:"income,omitempty"`
	Trade    *tradeRequest   `json:"trade,omitempty"`
	Savings  *savingsRequest `json:"savings,omitempty"`
	Gold     *goldRequest    `json:"gold,omitempty"`
	Wealth   *wealthRequest  `json:"wealth,omitempty"`
}

type incomeRequest struct {
	Primary        float64 `json:"primary"`
	Additional     float64 `json:"additional"`
	Period         string  `json:"period,omitempty"`
	DeductExpenses bool    `json:"deductExpenses,omitempty"`
	Expenses       float64 `json:"expenses,omitempty"`
}

type tradeRequest struct {
	Capital     float64 `json:"capital"`
	Profit      float64 `json:"profit"`
	Receivables float64 `json:"receivables"`
	Payables    float64 `json:"payables"`
	Losses      float64 `json:"losses"`
}

type savingsRequest struct {
	Balance          float64 `json:"balance"`
	Interest         float64 `json:"interest"`
	ConventionalBank bool    `json:"conventionalBank,omitempty"`
}

type goldRequest struct {
	WeightGrams float64 `json:"weightGrams"`
}

type wealthRequest struct {
	Amount float64 `json:"amount"`
}

type zakatResponse struct {
	Category        string          `json:"category"`
	School          string          `json:"school"`
	Currency        string          `json:"currency"`
	TaxableBase     float64         `json:"taxableBase"`
	NisabThreshold  float64         `json:"nisabThreshold"`
	Rate            float64         `json:"rate"`
	IsObligated     bool            `json:"isObligated"`
	ObligatedAmount float64         `json:"obligatedAmount"`
	Display         displayResponse `json:"display"`
	Messages        []string        `json:"messages,omitempty"`
}

type displayResponse struct {
	TaxableBase     string `json:"taxableBase"`
	NisabThreshold  string `json:"nisabThreshold"`
	ObligatedAmount string `json:"obligatedAmount"`
}

type fitrahRequest struct {
	Headcount int `json:"headcount"`
}

type fitrahResponse struct {
	Headcount    int      `json:"headcount"`
	PerHead      float64  `json:"perHead"`
	Total        float64  `json:"total"`
	Currency     string   `json:"currency"`
	DisplayTotal string   `json:"displayTotal"`
	Messages     []string `json:"messages,omitempty"`
}

type nisabResponse struct {
	GoldPriceUSDPerOunce  float64 `json:"goldPriceUsdPerOunce"`
	NisabThresholdUSD     float64 `json:"nisabThresholdUsd"`
	NisabThresholdDisplay string  `json:"nisabThresholdDisplay"`
	Currency              string  `json:"currency"`
	Source                string  `json:"source"`
	UpdatedAt             string  `json:"updatedAt"`
	Age                   string  `json:"age"`
}

func (h *handler) rates() (zakat.Rates, nisab.State) {
	nisabState := h.provider.Snapshot()
	fx := h.converter.Snapshot()
	return zakat.Rates{
		GoldPriceUSD: nisabState.GoldPriceUSD,
		NisabUSD:     nisabState.ThresholdUSD,
		FX:           fx,
	}, nisabState
}

func (h *handler) handleZakat(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.Tracer.Start(r.Context(), "server.handleZakat")
	defer span.End()

	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req zakatRequest
	if err := h.decode(w, r, &req); err != nil {
		return
	}
	if req.Category == "" {
		h.respondError(w, http.StatusBadRequest, "category is required")
		return
	}

	school := zakat.SchoolID(req.School)
	if req.School == "" {
		school = zakat.SchoolID(h.conf.School)
	}

	currentRates, nisabState := h.rates()
	categoryID := zakat.CategoryID(req.Category)
	eff := zakat.Resolve(categoryID, school, currentRates)
	result := zakat.Evaluate(categoryID, requestInputs(req), eff, currentRates)
	metrics.CalculationsTotal.WithLabelValues(string(result.Category), fmt.Sprintf("%t", result.IsObligated)).Inc()

	currency := currentRates.FX.Currency
	h.respondJSON(w, http.StatusOK, zakatResponse{
		Category:        string(result.Category),
		School:          string(eff.School.ID),
		Currency:        currency,
		TaxableBase:     result.TaxableBase,
		NisabThreshold:  eff.NisabThreshold,
		Rate:            eff.Rate,
		IsObligated:     result.IsObligated,
		ObligatedAmount: result.ObligatedAmount,
		Display: displayResponse{
			TaxableBase:     format.Currency(result.TaxableBase, currency),
			NisabThreshold:  format.Currency(eff.NisabThreshold, currency),
			ObligatedAmount: format.Currency(result.ObligatedAmount, currency),
		},
		Messages: calc.Advisories(result, nisabState),
	})
}

func (h *handler) handleFitrah(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.Tracer.Start(r.Context(), "server.handleFitrah")
	defer span.End()

	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req fitrahRequest
	if err := h.decode(w, r, &req); err != nil {
		return
	}

	currentRates, _ := h.rates()
	result := zakat.Fitrah(req.Headcount, currentRates)
	metrics.CalculationsTotal.WithLabelValues("fitrah", "true").Inc()

	var messages []string
	if result.Coerced {
		messages = append(messages, "headcount was invalid and has been set to 1")
	}

	currency := currentRates.FX.Currency
	h.respondJSON(w, http.StatusOK, fitrahResponse{
		Headcount:    result.Headcount,
		PerHead:      result.PerHead,
		Total:        result.Total,
		Currency:     currency,
		DisplayTotal: format.Currency(result.Total, currency),
		Messages:     messages,
	})
}

func (h *handler) handleNisab(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	nisabState := h.provider.Snapshot()
	fx := h.converter.Snapshot()
	h.respondJSON(w, http.StatusOK, nisabResponse{
		GoldPriceUSDPerOunce:  nisabState.GoldPriceUSD,
		NisabThresholdUSD:     nisabState.ThresholdUSD,
		NisabThresholdDisplay: format.Currency(fx.Convert(nisabState.ThresholdUSD), fx.Currency),
		Currency:              fx.Currency,
		Source:                string(nisabState.Source),
		UpdatedAt:             nisabState.UpdatedAt.Format(time.RFC3339),
		Age:                   time.Since(nisabState.UpdatedAt).Round(time.Second).String(),
	})
}

func (h *handler) handleConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	data, err := yaml.Marshal(h.conf)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to serialize config: %v", err))
		return
	}

	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"version": h.version})
}

// decode reads a size-limited JSON body into dst, writing the error response
// itself when the payload is unusable.
func (h *handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse request: %v", err))
		return err
	}
	return nil
}

func (h *handler) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response",
			zap.String("op", "server.respondJSON"),
			zap.Error(err),
		)
	}
}

func (h *handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// requestInputs converts an API request into engine inputs, clamping any
// negative figures to zero.
func requestInputs(req zakatRequest) zakat.Inputs {
	var in zakat.Inputs

	if req.Income != nil {
		period := zakat.PeriodMonthly
		if req.Income.Period == string(zakat.PeriodYearly) {
			period = zakat.PeriodYearly
		}
		in.Income = zakat.IncomeInputs{
			Primary:        numeric.Clamp(req.Income.Primary),
			Additional:     numeric.Clamp(req.Income.Additional),
			Period:         period,
			DeductExpenses: req.Income.DeductExpenses,
			Expenses:       numeric.Clamp(req.Income.Expenses),
		}
	}
	if req.Trade != nil {
		in.Trade = zakat.TradeInputs{
			Capital:     numeric.Clamp(req.Trade.Capital),
			Profit:      numeric.Clamp(req.Trade.Profit),
			Receivables: numeric.Clamp(req.Trade.Receivables),
			Payables:    numeric.Clamp(req.Trade.Payables),
			Losses:      numeric.Clamp(req.Trade.Losses),
		}
	}
	if req.Savings != nil {
		in.Savings = zakat.SavingsInputs{
			Balance:          numeric.Clamp(req.Savings.Balance),
			Interest:         numeric.Clamp(req.Savings.Interest),
			ConventionalBank: req.Savings.ConventionalBank,
		}
	}
	if req.Gold != nil {
		in.Gold = zakat.GoldInputs{WeightGrams: numeric.Clamp(req.Gold.WeightGrams)}
	}
	if req.Wealth != nil {
		in.Wealth = zakat.WealthInputs{Amount: numeric.Clamp(req.Wealth.Amount)}
	}

	return in
}
