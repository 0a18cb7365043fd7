package alerts

import "aifinverse-backend/internal/types"

// Visible computes the subset of a feed a user sees: a record is shown iff
// its type matches one of the selected strategy names, and, when a watchlist
// is set, its stock is on it. An empty selection hides everything.
func Visible(records []types.AlertRecord, selected, watchlist []string) []types.AlertRecord {
	if len(selected) == 0 {
		return []types.AlertRecord{}
	}

	selectedSet := make(map[string]struct{}, len(selected))
	for _, s := range selected {
		selectedSet[s] = struct{}{}
	}

	watchSet := make(map[string]struct{}, len(watchlist))
	for _, s := range watchlist {
		watchSet[s] = struct{}{}
	}

	visible := make([]types.AlertRecord, 0, len(records))
	for _, rec := range records {
		if _, ok := selectedSet[rec.Type]; !ok {
			continue
		}
		if len(watchSet) > 0 {
			if _, ok := watchSet[rec.Stock]; !ok {
				continue
			}
		}
		visible = append(visible, rec)
	}
	return visible
}

// Available returns the strategies a user has not yet selected.
func Available(selected []string) []string {
	selectedSet := make(map[string]struct{}, len(selected))
	for _, s := range selected {
		selectedSet[s] = struct{}{}
	}

	out := make([]string, 0, len(AllStrategies))
	for _, s := range AllStrategies {
		if _, ok := selectedSet[s]; !ok {
			out = append(out, s)
		}
	}
	return out
}
