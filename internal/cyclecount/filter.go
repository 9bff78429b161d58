package cyclecount

import (
	"fmt"

	"gorm.io/gorm"
)

type FilterType string

const (
	FilterAll      FilterType = "all"
	FilterZone     FilterType = "zone"
	FilterAisle    FilterType = "aisle"
	FilterRow      FilterType = "row"
	FilterBin      FilterType = "bin"
	FilterCategory FilterType = "category"
)

// Filter selects which inventory items belong to a session. It is parsed
// once at creation and resolved into a single query predicate; nothing
// downstream ever switches on the raw strings again.
type Filter struct {
	Type  FilterType
	Value string
}

// ParseFilter validates the wire representation. An empty type means "all".
func ParseFilter(filterType, filterValue string) (Filter, error) {
	if filterType == "" {
		return Filter{Type: FilterAll}, nil
	}

	t := FilterType(filterType)
	switch t {
	case FilterAll:
		return Filter{Type: FilterAll}, nil
	case FilterZone, FilterAisle, FilterRow, FilterBin, FilterCategory:
		if filterValue == "" {
			return Filter{}, &ValidationError{Field: "filter_value", Reason: fmt.Sprintf("required for filter type %q", filterType)}
		}
		return Filter{Type: t, Value: filterValue}, nil
	default:
		return Filter{}, &ValidationError{Field: "filter_type", Reason: fmt.Sprintf("unknown filter type %q", filterType)}
	}
}

func (f Filter) apply(q *gorm.DB) *gorm.DB {
	switch f.Type {
	case FilterZone:
		return q.Where("zone = ?", f.Value)
	case FilterAisle:
		return q.Where("aisle = ?", f.Value)
	case FilterRow:
		// quoted: ROW is reserved in Postgres
		return q.Where(`"row" = ?`, f.Value)
	case FilterBin:
		return q.Where("bin = ?", f.Value)
	case FilterCategory:
		return q.Where("category = ?", f.Value)
	default:
		return q
	}
}
