package processor

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	appconfig "profitflow/config"
	"profitflow/logger"
	"profitflow/models"
)

// Engine runs the full derivation pipeline: aggregate volume, join pricing
// and trade spend, compute the waterfall, then branch into the PVM bridge and
// the ledger explosion. A run is a pure function of its three input tables;
// results are memoized on a content hash of the inputs so repeated runs over
// unmodified tables skip recomputation.
type Engine struct {
	config *appconfig.Config
	log    *logger.Log
	cache  *gocache.Cache
}

func NewEngine(cfg *appconfig.Config) *Engine {
	e := &Engine{
		config: cfg,
		log:    logger.GetLogger(),
	}
	if cfg.Engine.Cache.Enabled {
		e.cache = gocache.New(cfg.Engine.Cache.Expiration, cfg.Engine.Cache.CleanupInterval)
	}
	return e
}

// Run executes one engine pass over the given inputs. Schema and parse
// problems have already been rejected by the loaders; the only error left at
// this level is a trade-spend rule whose type is outside the configured set.
func (e *Engine) Run(inputs models.Inputs) (*models.Result, error) {
	start := time.Now()
	log := e.log.WithComponent("engine").WithFields(logger.Fields{
		"volume_rows":     len(inputs.Volume),
		"pricing_rows":    len(inputs.Pricing),
		"tradespend_rows": len(inputs.TradeSpend),
	})

	spendTypes := e.config.Engine.SpendTypes
	if err := validateSpendTypes(inputs.TradeSpend, spendTypes); err != nil {
		return nil, err
	}

	hash := hashInputs(inputs)
	if e.cache != nil {
		if cached, found := e.cache.Get(hash); found {
			log.WithFields(logger.Fields{"input_hash": hash}).Info("cache hit, returning memoized result")
			return cached.(*models.Result), nil
		}
	}

	log.WithFields(logger.Fields{"input_hash": hash}).Info("starting engine run")

	aggregated := AggregateVolume(inputs.Volume)
	prices := buildPriceIndex(inputs.Pricing)
	pivot := PivotTradeSpend(inputs.TradeSpend)

	master, stats := JoinMaster(aggregated, prices, pivot, spendTypes)
	master = ComputeWaterfall(master, spendTypes)

	result := &models.Result{
		RunID:     uuid.New().String(),
		InputHash: hash,
		Master:    master,
		JoinStats: stats,
	}

	current, previous, ok := e.resolvePeriods(master)
	result.CurrentPeriod = current
	result.PreviousPeriod = previous
	if ok {
		result.PVM = BuildBridge(rowsForPeriod(master, current), rowsForPeriod(master, previous))
	} else {
		result.PVMSkipped = true
		log.WithFields(logger.Fields{"current_period": current}).Info("no previous-period data, skipping pvm bridge")
	}

	result.Ledger = ExplodeLedger(master, inputs.TradeSpend)

	logger.LogDataFlowEntry(log, "engine", "writer", len(result.Master), "master_rows")
	logger.LogDataFlowEntry(log, "engine", "writer", len(result.Ledger), "ledger_lines")

	if stats.UnmatchedPrice > 0 || stats.UnmatchedSpend > 0 {
		log.WithFields(logger.Fields{
			"unmatched_price": stats.UnmatchedPrice,
			"unmatched_spend": stats.UnmatchedSpend,
		}).Warn("join keys without counterpart were zero-filled")
	}

	e.log.LogMetric("engine", "master_rows", len(result.Master), "gauge", logger.Fields{"run_id": result.RunID})
	e.log.LogMetric("engine", "ledger_lines", len(result.Ledger), "gauge", logger.Fields{"run_id": result.RunID})
	e.log.LogMetric("engine", "unmatched_price_keys", stats.UnmatchedPrice, "counter", logger.Fields{"run_id": result.RunID})
	e.log.LogMetric("engine", "unmatched_spend_keys", stats.UnmatchedSpend, "counter", logger.Fields{"run_id": result.RunID})

	if e.cache != nil {
		e.cache.Set(hash, result, gocache.DefaultExpiration)
	}
	logger.IncrementRunsCompleted()

	logger.LogPerformanceEntry(log, "engine", "run", time.Since(start), logger.Fields{
		"run_id":       result.RunID,
		"master_rows":  len(result.Master),
		"ledger_lines": len(result.Ledger),
		"pvm_rows":     len(result.PVM),
	})

	return result, nil
}

// resolvePeriods picks the bridge period pair. Explicit configuration wins;
// otherwise the latest period present is current and the next lower present
// period is previous. ok is false when no previous period exists.
func (e *Engine) resolvePeriods(rows []models.MasterRow) (current, previous int, ok bool) {
	current = e.config.Engine.Periods.Current
	previous = e.config.Engine.Periods.Previous
	if current != 0 && previous != 0 {
		return current, previous, hasPeriod(rows, previous)
	}

	periods := make([]int, 0, 4)
	seen := make(map[int]struct{})
	for _, r := range rows {
		if _, dup := seen[r.Period]; !dup {
			seen[r.Period] = struct{}{}
			periods = append(periods, r.Period)
		}
	}
	if len(periods) == 0 {
		return 0, 0, false
	}
	sort.Ints(periods)

	if current == 0 {
		current = periods[len(periods)-1]
	}
	for i := len(periods) - 1; i >= 0; i-- {
		if periods[i] < current {
			return current, periods[i], true
		}
	}
	return current, 0, false
}

func hasPeriod(rows []models.MasterRow, period int) bool {
	for _, r := range rows {
		if r.Period == period {
			return true
		}
	}
	return false
}

func rowsForPeriod(rows []models.MasterRow, period int) []models.MasterRow {
	out := make([]models.MasterRow, 0, len(rows))
	for _, r := range rows {
		if r.Period == period {
			out = append(out, r)
		}
	}
	return out
}

func validateSpendTypes(rules []models.TradeSpendRule, known []string) error {
	set := make(map[string]struct{}, len(known))
	for _, t := range known {
		set[t] = struct{}{}
	}
	for _, r := range rules {
		if _, ok := set[r.Type]; !ok {
			return fmt.Errorf("trade_spend: unknown spend type %q (known types: %v)", r.Type, known)
		}
	}
	return nil
}

// hashInputs produces a deterministic content hash of the three input tables.
// Identical tables always hash identically, which makes the hash a safe
// memoization key.
func hashInputs(inputs models.Inputs) string {
	h := sha256.New()
	for _, r := range inputs.Volume {
		fmt.Fprintf(h, "v|%d|%s|%s|%s|%s|%g\n", r.Period, r.Channel, r.Category, r.Customer, r.ProductKey, r.Units)
	}
	for _, r := range inputs.Pricing {
		fmt.Fprintf(h, "p|%d|%s|%s|%g|%g|%g\n", r.Period, r.Channel, r.ProductKey, r.ListPrice, r.StdCost, r.GtgPct)
	}
	for _, r := range inputs.TradeSpend {
		fmt.Fprintf(h, "t|%d|%s|%s|%s|%s|%s|%g\n", r.Period, r.Channel, r.Category, r.Type, r.AccountCode, r.AccountName, r.Percentage)
	}
	return hex.EncodeToString(h.Sum(nil))
}
