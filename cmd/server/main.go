package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/wandersoul78/daybook/internal/config"
	"github.com/wandersoul78/daybook/internal/daybook"
	"github.com/wandersoul78/daybook/internal/events/kafka"
	"github.com/wandersoul78/daybook/internal/export"
	"github.com/wandersoul78/daybook/internal/interfaces"
	"github.com/wandersoul78/daybook/internal/ledger"
	"github.com/wandersoul78/daybook/internal/models"
	"github.com/wandersoul78/daybook/internal/sheet"
	"github.com/wandersoul78/daybook/internal/storage/postgres"
	"github.com/wandersoul78/daybook/internal/storage/sheetstore"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	ctx := context.Background()
	store, err := buildStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("init store", slog.Any("error", err))
		os.Exit(1)
	}

	var publisher interfaces.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher = kafka.NewPublisher(cfg.KafkaBrokers)
	}

	engine := ledger.NewEngine(store)
	service := daybook.NewService(store, publisher, cfg.KafkaTopic, logger)

	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	http.HandleFunc("/vouchers", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		vouchers, err := store.ListVouchers(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		rows := make([]map[string]any, len(vouchers))
		for i, v := range vouchers {
			rows[i] = map[string]any{
				"date":   v.Date.Format(models.DateLayout),
				"slip":   v.Slip,
				"type":   v.Type,
				"party":  v.Party,
				"item":   v.Item,
				"qty":    v.Qty,
				"rate":   v.Rate,
				"amount": v.Amount,
			}
		}
		writeJSON(w, rows)
	})

	http.HandleFunc("/entries", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			Date  string             `json:"date"`
			Slip  string             `json:"slip"`
			Type  models.VoucherType `json:"type"`
			Party string             `json:"party"`
			Lines []struct {
				Item       string          `json:"item"`
				Qty        decimal.Decimal `json:"qty"`
				Rate       decimal.Decimal `json:"rate"`
				GSTPercent decimal.Decimal `json:"gst_percent"`
			} `json:"lines"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		date, err := models.ParseDate(req.Date)
		if err != nil {
			http.Error(w, "date must be MM-DD-YYYY", http.StatusBadRequest)
			return
		}
		lines := make([]daybook.EntryLine, len(req.Lines))
		for i, l := range req.Lines {
			lines[i] = daybook.EntryLine{Item: l.Item, Qty: l.Qty, Rate: l.Rate, GSTPercent: l.GSTPercent}
		}
		vouchers, err := service.AddEntry(r.Context(), date, req.Slip, req.Type, req.Party, lines)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusCreated)
		writeJSON(w, map[string]any{"status": "created", "vouchers": len(vouchers)})
	})

	http.HandleFunc("/payments", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			Date      string             `json:"date"`
			Reference string             `json:"reference"`
			Type      models.VoucherType `json:"type"`
			Party     string             `json:"party"`
			Mode      string             `json:"mode"`
			Bank      string             `json:"bank"`
			Amount    decimal.Decimal    `json:"amount"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		date, err := models.ParseDate(req.Date)
		if err != nil {
			http.Error(w, "date must be MM-DD-YYYY", http.StatusBadRequest)
			return
		}
		vouchers, err := service.AddPaymentReceipt(r.Context(), daybook.PaymentInput{
			Date:      date,
			Reference: req.Reference,
			Type:      req.Type,
			Party:     req.Party,
			Mode:      req.Mode,
			Bank:      req.Bank,
			Amount:    req.Amount,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusCreated)
		writeJSON(w, map[string]any{"status": "created", "vouchers": len(vouchers)})
	})

	http.HandleFunc("/parties/balance", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		party := r.URL.Query().Get("party")
		if party == "" {
			http.Error(w, "party is a mandatory field", http.StatusBadRequest)
			return
		}
		asOf, err := dateParam(r, "as_of", today())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		balance, err := engine.BalanceAsOf(r.Context(), party, asOf)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]any{
			"party":   party,
			"as_of":   asOf.Format(models.DateLayout),
			"balance": balance,
		})
	})

	http.HandleFunc("/parties/statement", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		party := r.URL.Query().Get("party")
		if party == "" {
			http.Error(w, "party is a mandatory field", http.StatusBadRequest)
			return
		}
		from, err := dateParam(r, "from", models.FiscalYearStart(today()))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		to, err := dateParam(r, "to", today())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		st, err := engine.Statement(r.Context(), party, from, to)
		if errors.Is(err, ledger.ErrNoEntries) {
			http.Error(w, "no entries found for the selected party", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if r.URL.Query().Get("format") == "csv" {
			w.Header().Set("Content-Type", "text/csv")
			w.Header().Set("Content-Disposition",
				fmt.Sprintf("attachment; filename=Ledger_%s.csv", party))
			if err := export.WriteCSV(w, st); err != nil {
				logger.Error("write statement csv", slog.Any("error", err))
			}
			return
		}
		writeJSON(w, st)
	})

	http.HandleFunc("/dashboard/outstanding", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		balances, err := engine.Outstanding(r.Context(), today())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, balances)
	})

	http.HandleFunc("/parties", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			parties, err := store.ListParties(r.Context())
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			writeJSON(w, masterRows(parties, func(p models.Party) (string, models.Category) {
				return p.Name, p.Category
			}))
		case http.MethodPost, http.MethodPut:
			var req struct {
				Name     string          `json:"name"`
				Category models.Category `json:"category"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
				http.Error(w, "name and category are required", http.StatusBadRequest)
				return
			}
			p := models.Party{Name: req.Name, Category: req.Category}
			var err error
			if r.Method == http.MethodPost {
				err = store.AddParty(r.Context(), p)
			} else {
				err = store.UpdateParty(r.Context(), r.URL.Query().Get("name"), p)
			}
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			w.WriteHeader(http.StatusCreated)
		case http.MethodDelete:
			if err := store.DeleteParty(r.Context(), r.URL.Query().Get("name")); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	http.HandleFunc("/items", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			items, err := store.ListItems(r.Context())
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			writeJSON(w, masterRows(items, func(i models.Item) (string, models.Category) {
				return i.Name, i.Category
			}))
		case http.MethodPost, http.MethodPut:
			var req struct {
				Name     string          `json:"name"`
				Category models.Category `json:"category"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
				http.Error(w, "name and category are required", http.StatusBadRequest)
				return
			}
			i := models.Item{Name: req.Name, Category: req.Category}
			var err error
			if r.Method == http.MethodPost {
				err = store.AddItem(r.Context(), i)
			} else {
				err = store.UpdateItem(r.Context(), r.URL.Query().Get("name"), i)
			}
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			w.WriteHeader(http.StatusCreated)
		case http.MethodDelete:
			if err := store.DeleteItem(r.Context(), r.URL.Query().Get("name")); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	http.HandleFunc("/opening-balances", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			balances, err := store.ListOpeningBalances(r.Context())
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			rows := make([]map[string]any, len(balances))
			for i, b := range balances {
				asOf := ""
				if !b.AsOf.IsZero() {
					asOf = b.AsOf.Format(models.DateLayout)
				}
				rows[i] = map[string]any{
					"party":   b.Party,
					"as_of":   asOf,
					"debit":   b.Debit,
					"credit":  b.Credit,
					"balance": b.Net(),
				}
			}
			writeJSON(w, rows)
		case http.MethodPost, http.MethodPut:
			var req struct {
				Party  string          `json:"party"`
				AsOf   string          `json:"as_of"`
				Debit  decimal.Decimal `json:"debit"`
				Credit decimal.Decimal `json:"credit"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Party == "" {
				http.Error(w, "party is required", http.StatusBadRequest)
				return
			}
			asOf, err := models.ParseDate(req.AsOf)
			if err != nil {
				http.Error(w, "as_of must be MM-DD-YYYY", http.StatusBadRequest)
				return
			}
			if req.Debit.Sign() < 0 || req.Credit.Sign() < 0 {
				http.Error(w, "debit and credit must be non-negative", http.StatusBadRequest)
				return
			}
			b := models.OpeningBalance{Party: req.Party, AsOf: asOf, Debit: req.Debit, Credit: req.Credit}
			if err := store.SetOpeningBalance(r.Context(), b); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			w.WriteHeader(http.StatusCreated)
		case http.MethodDelete:
			party := r.URL.Query().Get("party")
			if party == "" {
				http.Error(w, "party is a mandatory field", http.StatusBadRequest)
				return
			}
			if err := store.DeleteOpeningBalance(r.Context(), party); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	http.HandleFunc("/production", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			Date     string          `json:"date"`
			Grade    string          `json:"grade"`
			Lots     int64           `json:"lots"`
			Resin    decimal.Decimal `json:"resin"`
			Mitti    decimal.Decimal `json:"mitti"`
			CPW      decimal.Decimal `json:"cpw"`
			Dop      decimal.Decimal `json:"dop"`
			Chemical decimal.Decimal `json:"chemical"`
			Other    decimal.Decimal `json:"other"`
			Output   decimal.Decimal `json:"output"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		date, err := models.ParseDate(req.Date)
		if err != nil {
			http.Error(w, "date must be MM-DD-YYYY", http.StatusBadRequest)
			return
		}
		record, err := service.LogProduction(r.Context(), daybook.ProductionInput{
			Date:     date,
			Grade:    req.Grade,
			Lots:     req.Lots,
			Resin:    req.Resin,
			Mitti:    req.Mitti,
			CPW:      req.CPW,
			Dop:      req.Dop,
			Chemical: req.Chemical,
			Other:    req.Other,
			Output:   req.Output,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusCreated)
		writeJSON(w, map[string]any{
			"status":     "created",
			"lot_weight": record.LotWeight,
		})
	})

	logger.Info("starting server", slog.String("addr", cfg.ListenAddr), slog.String("backend", cfg.Backend))
	if err := http.ListenAndServe(cfg.ListenAddr, nil); err != nil {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

// buildStore wires the configured backend. Grid backends get the retry and
// cache decorators; the write path's cache invalidation lives inside the
// cache grid itself.
func buildStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (interfaces.DaybookStore, error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := db.PingContext(ctx); err != nil {
			return nil, err
		}
		store := postgres.NewStore(db, logger)
		if err := store.Init(ctx); err != nil {
			return nil, err
		}
		return store, nil
	case config.BackendSheets:
		grid, err := sheet.NewGoogleGrid(ctx, cfg.SheetID, cfg.CredentialsFile)
		if err != nil {
			return nil, err
		}
		return buildSheetStore(ctx, grid, cfg, logger)
	default:
		return buildSheetStore(ctx, sheet.NewMemoryGrid(), cfg, logger)
	}
}

func buildSheetStore(ctx context.Context, grid sheet.Grid, cfg config.Config, logger *slog.Logger) (interfaces.DaybookStore, error) {
	retrying := sheet.NewRetryGrid(grid, sheet.RetryPolicy{
		MaxAttempts: cfg.RetryAttempts,
		Delay:       cfg.RetryDelay,
	})
	cached := sheet.NewCacheGrid(retrying, cfg.CacheTTL, nil)
	store := sheetstore.NewStore(cached, logger)
	if err := store.Init(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// today is the server's calendar date, truncated so comparisons against
// parsed sheet dates behave.
func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func dateParam(r *http.Request, name string, fallback time.Time) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be MM-DD-YYYY", name)
	}
	return d, nil
}

func masterRows[T any](rows []T, fields func(T) (string, models.Category)) []map[string]string {
	out := make([]map[string]string, len(rows))
	for i, row := range rows {
		name, category := fields(row)
		out[i] = map[string]string{"name": name, "category": string(category)}
	}
	return out
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
