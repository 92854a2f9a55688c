package session

import "github.com/catadaptive/pharmcat/internal/itembank"

// SelectNext picks the unadministered item carrying the most Fisher
// information at the current ability estimate. Ties break on the lowest item
// ID so selection is reproducible given identical inputs. Returns nil when
// every pool item has been administered.
func SelectNext(pool []*itembank.ItemTemplate, administered map[string]bool, theta float64) *itembank.ItemTemplate {
	var best *itembank.ItemTemplate
	bestInfo := -1.0

	for _, item := range pool {
		if administered[item.ID] {
			continue
		}
		info := item.Parameter.FisherInformation(theta)
		switch {
		case info > bestInfo:
			best, bestInfo = item, info
		case info == bestInfo && best != nil && item.ID < best.ID:
			best = item
		}
	}

	return best
}
