package shopping

import (
	"context"
	"fmt"
	"sort"

	"pantrypilot/internal/models"
)

const (
	// MaxStores bounds the search to the K cheapest stores overall.
	// Splitting a list across many stores is rarely worth the legwork, so
	// the combinatorics are capped rather than enumerated.
	MaxStores = 3

	// dwellMinutes is the assumed in-store time per visited store.
	dwellMinutes = 15

	// valueOfTimePerMinute converts extra travel minutes into money when
	// weighing a multi-store split against its savings.
	valueOfTimePerMinute = 0.10
)

// RouteSource supplies travel estimates for store trips. Satisfied by
// travel.Estimator.
type RouteSource interface {
	Route(ctx context.Context, origin, dest models.Coordinates, mode models.TravelMode) *models.RouteEstimate
}

// Optimizer allocates a shopping list across candidate stores, minimizing
// item cost plus a travel penalty for every extra store visited.
type Optimizer struct {
	travel RouteSource
	home   models.Coordinates
}

// NewOptimizer creates an optimizer for trips starting at home.
func NewOptimizer(travel RouteSource, home models.Coordinates) *Optimizer {
	return &Optimizer{travel: travel, home: home}
}

// priced is an item with its resolved baseline cost.
type priced struct {
	item models.ShoppingItem
	base float64
}

// Optimize assigns each list item to a store. The search considers only the
// MaxStores cheapest stores overall; a multi-store split is chosen only when
// its savings exceed the travel penalty of the extra stores. Items no store
// can price are returned unallocated with a warning instead of failing the
// run.
func (o *Optimizer) Optimize(ctx context.Context, items []models.ShoppingItem, stores []models.Store, maxBudget float64) (*models.ShoppingAllocation, error) {
	if maxBudget < 0 {
		return nil, models.NewValidationError("max_budget", "must not be negative")
	}

	result := &models.ShoppingAllocation{}

	var pricedItems []priced
	for _, item := range items {
		base, ok := baselineFor(item)
		if !ok {
			result.Unallocated = append(result.Unallocated, item)
			if item.Priority == models.PriorityEssential {
				result.Warnings = append(result.Warnings, models.Warning{
					Code:    models.WarnItemUnallocated,
					Message: fmt.Sprintf("no store carries %s", item.Name),
				})
			}
			continue
		}
		pricedItems = append(pricedItems, priced{item: item, base: base})
	}

	if len(stores) == 0 || len(pricedItems) == 0 {
		for _, p := range pricedItems {
			result.Unallocated = append(result.Unallocated, p.item)
		}
		if len(stores) == 0 && len(items) > 0 {
			result.Warnings = append(result.Warnings, models.Warning{
				Code:    models.WarnItemUnallocated,
				Message: "no candidate stores supplied",
			})
		}
		return result, nil
	}

	candidates := cheapestStores(pricedItems, stores, MaxStores)

	single := o.bestSingleStore(pricedItems, candidates)
	split := cheapestPerItem(pricedItems, candidates)

	chosen := single
	if len(split.stores) > 1 {
		savings := single.cost - split.cost
		penalty := o.splitPenalty(ctx, split.stores, single.stores)
		// A split also wins when it is the only plan inside the budget:
		// fitting the budget outranks the travel penalty.
		if savings > penalty || (maxBudget > 0 && single.cost > maxBudget && split.cost <= maxBudget) {
			chosen = split
			result.Savings = round2(savings)
		}
	}

	result.Allocations = chosen.allocations
	result.TotalCost = round2(chosen.cost)
	o.buildRoute(ctx, chosen.stores, result)

	if maxBudget > 0 && result.TotalCost > maxBudget {
		result.Warnings = append(result.Warnings, models.Warning{
			Code:    models.WarnBudgetShortfall,
			Message: fmt.Sprintf("allocation costs %.2f, over budget %.2f", result.TotalCost, maxBudget),
		})
	}
	return result, nil
}

// allocation is a candidate assignment with its total item cost.
type allocation struct {
	allocations []models.ItemAllocation
	stores      []models.Store
	cost        float64
}

// priceAt returns an item's price at a store: the exact per-store price when
// known, otherwise the baseline scaled by the store's price-level
// multiplier. The multiplier path is a deliberate placeholder estimator.
func priceAt(p priced, store models.Store) float64 {
	if exact, ok := p.item.StorePrices[store.StoreID]; ok && exact > 0 {
		return exact
	}
	return p.base * models.PriceLevel(store.PriceLevel).Multiplier()
}

// baselineFor resolves an item's baseline cost, falling back to its
// category. An item with exact store prices is always priceable: the dearest
// known price stands in for stores without one. The second return value is
// false when the item cannot be priced at all.
func baselineFor(item models.ShoppingItem) (float64, bool) {
	if item.EstimatedCost > 0 {
		return item.EstimatedCost, true
	}
	if cost, ok := models.BaselineCostFor(item.Category); ok {
		return cost, true
	}
	base := 0.0
	for _, price := range item.StorePrices {
		if price > base {
			base = price
		}
	}
	return base, base > 0
}

// cheapestStores ranks stores by the cost of buying the whole list there and
// keeps the k cheapest. Ties prefer the higher-rated store.
func cheapestStores(items []priced, stores []models.Store, k int) []models.Store {
	type ranked struct {
		store models.Store
		total float64
	}
	rankings := make([]ranked, 0, len(stores))
	for _, store := range stores {
		total := 0.0
		for _, p := range items {
			total += priceAt(p, store)
		}
		rankings = append(rankings, ranked{store: store, total: total})
	}
	sort.Slice(rankings, func(i, j int) bool {
		if rankings[i].total != rankings[j].total {
			return rankings[i].total < rankings[j].total
		}
		if rankings[i].store.Rating != rankings[j].store.Rating {
			return rankings[i].store.Rating > rankings[j].store.Rating
		}
		return rankings[i].store.Name < rankings[j].store.Name
	})
	if len(rankings) > k {
		rankings = rankings[:k]
	}
	out := make([]models.Store, len(rankings))
	for i, r := range rankings {
		out[i] = r.store
	}
	return out
}

// bestSingleStore buys everything at the one store that minimizes the total.
func (o *Optimizer) bestSingleStore(items []priced, stores []models.Store) allocation {
	best := allocation{cost: -1}
	for _, store := range stores {
		var allocs []models.ItemAllocation
		total := 0.0
		for _, p := range items {
			price := priceAt(p, store)
			total += price
			allocs = append(allocs, models.ItemAllocation{
				Item:      p.item,
				StoreID:   store.StoreID,
				StoreName: store.Name,
				Price:     round2(price),
			})
		}
		if best.cost < 0 || total < best.cost {
			best = allocation{allocations: allocs, stores: []models.Store{store}, cost: total}
		}
	}
	return best
}

// cheapestPerItem assigns each item to its cheapest store among the
// candidates, ignoring travel. This is the naive baseline: the final result
// never exceeds its item cost by more than the travel penalty it avoids.
func cheapestPerItem(items []priced, stores []models.Store) allocation {
	var allocs []models.ItemAllocation
	used := make(map[string]models.Store)
	total := 0.0
	for _, p := range items {
		bestStore := stores[0]
		bestPrice := priceAt(p, stores[0])
		for _, store := range stores[1:] {
			price := priceAt(p, store)
			if price < bestPrice || (price == bestPrice && store.Rating > bestStore.Rating) {
				bestStore, bestPrice = store, price
			}
		}
		total += bestPrice
		used[bestStore.StoreID] = bestStore
		allocs = append(allocs, models.ItemAllocation{
			Item:      p.item,
			StoreID:   bestStore.StoreID,
			StoreName: bestStore.Name,
			Price:     round2(bestPrice),
		})
	}
	storeList := make([]models.Store, 0, len(used))
	for _, s := range used {
		storeList = append(storeList, s)
	}
	sort.Slice(storeList, func(i, j int) bool { return storeList[i].StoreID < storeList[j].StoreID })
	return allocation{allocations: allocs, stores: storeList, cost: total}
}

// splitPenalty prices the extra stores a split visits beyond the single-store
// plan: each additional store charges its walking time from home, valued in
// money.
func (o *Optimizer) splitPenalty(ctx context.Context, splitStores, singleStores []models.Store) float64 {
	base := make(map[string]bool, len(singleStores))
	for _, s := range singleStores {
		base[s.StoreID] = true
	}
	penalty := 0.0
	for _, store := range splitStores {
		if base[store.StoreID] {
			continue
		}
		route := o.travel.Route(ctx, o.home, models.Coordinates{Lat: store.Lat, Lng: store.Lng}, models.ModeWalk)
		penalty += float64(route.Duration)*valueOfTimePerMinute + route.Cost
	}
	return penalty
}

// buildRoute orders the visited stores nearest-first from home and fills in
// travel legs and total time.
func (o *Optimizer) buildRoute(ctx context.Context, stores []models.Store, result *models.ShoppingAllocation) {
	sorted := make([]models.Store, len(stores))
	copy(sorted, stores)
	sort.Slice(sorted, func(i, j int) bool {
		di := o.travel.Route(ctx, o.home, models.Coordinates{Lat: sorted[i].Lat, Lng: sorted[i].Lng}, models.ModeWalk).DistanceKm
		dj := o.travel.Route(ctx, o.home, models.Coordinates{Lat: sorted[j].Lat, Lng: sorted[j].Lng}, models.ModeWalk).DistanceKm
		return di < dj
	})

	from := o.home
	totalTime := 0
	for _, store := range sorted {
		to := models.Coordinates{Lat: store.Lat, Lng: store.Lng}
		route := o.travel.Route(ctx, from, to, models.ModeWalk)
		totalTime += route.Duration + dwellMinutes
		result.VisitOrder = append(result.VisitOrder, models.StoreVisit{
			StoreID:    store.StoreID,
			StoreName:  store.Name,
			TravelTime: route.Duration,
			DistanceKm: route.DistanceKm,
		})
		from = to
	}
	result.TotalTime = totalTime
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
