package schedule

// Service is the slice of a catalog entry the scheduler needs.
type Service struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Price           Money  `json:"price"`
	DurationMinutes int    `json:"duration_minutes"`
}

// Catalog indexes services by ID.
type Catalog map[string]Service

func NewCatalog(services ...Service) Catalog {
	c := make(Catalog, len(services))
	for _, s := range services {
		c[s.ID] = s
	}
	return c
}

// Totals is the combined duration and price of a service selection.
type Totals struct {
	DurationMinutes int   `json:"total_duration_minutes"`
	Price           Money `json:"total_price"`
}

func (t Totals) Add(other Totals) Totals {
	return Totals{
		DurationMinutes: t.DurationMinutes + other.DurationMinutes,
		Price:           t.Price + other.Price,
	}
}

// Aggregate sums duration and price over ids. IDs missing from the catalog
// contribute nothing, so a selection can be priced while the catalog is
// still loading.
func Aggregate(ids []string, catalog Catalog) Totals {
	var t Totals
	for _, id := range ids {
		s, ok := catalog[id]
		if !ok {
			continue
		}
		t.DurationMinutes += s.DurationMinutes
		t.Price += s.Price
	}
	return t
}

// Dedup drops repeated IDs, keeping the first occurrence of each.
func Dedup(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
