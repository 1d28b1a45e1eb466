package regclient

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// filterDateLayout is the wire format for filter date bounds.
const filterDateLayout = "2006-01-02"

// Filters narrows retrieval for one question. Zero-value fields are omitted
// from the wire; an all-zero Filters searches the whole corpus.
type Filters struct {
	// Industries restricts retrieval to documents tagged with these
	// industry codes (e.g., "banking", "fintech")
	Industries []string `json:"industries,omitempty"`

	// DocTypes restricts retrieval to these document type codes
	// (e.g., "law", "guideline")
	DocTypes []string `json:"doc_types,omitempty"`

	// Topics restricts retrieval to these topic codes (e.g., "aml")
	Topics []string `json:"topics,omitempty"`

	// DateFrom is the inclusive lower publication date bound (YYYY-MM-DD)
	DateFrom string `json:"date_from,omitempty"`

	// DateTo is the inclusive upper publication date bound (YYYY-MM-DD)
	DateTo string `json:"date_to,omitempty"`
}

// Empty returns true when no filter field is set.
func (f *Filters) Empty() bool {
	if f == nil {
		return true
	}
	return len(f.Industries) == 0 && len(f.DocTypes) == 0 && len(f.Topics) == 0 &&
		f.DateFrom == "" && f.DateTo == ""
}

// ValidateFilters validates filter fields the backend would reject outright.
// Unknown codes are deliberately not errors here; the warning engine flags
// those so a stale client-side catalog never blocks a valid request.
func ValidateFilters(f *Filters) error {
	if f == nil {
		return nil // nil filters is valid
	}

	var from, to time.Time
	var err error

	if f.DateFrom != "" {
		from, err = time.Parse(filterDateLayout, f.DateFrom)
		if err != nil {
			return &ValidationError{
				Field:  "filters.date_from",
				Value:  f.DateFrom,
				Reason: "must be a YYYY-MM-DD date",
				Err:    ErrInvalidRequest,
			}
		}
	}

	if f.DateTo != "" {
		to, err = time.Parse(filterDateLayout, f.DateTo)
		if err != nil {
			return &ValidationError{
				Field:  "filters.date_to",
				Value:  f.DateTo,
				Reason: "must be a YYYY-MM-DD date",
				Err:    ErrInvalidRequest,
			}
		}
	}

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return &ValidationError{
			Field:  "filters.date_from",
			Value:  f.DateFrom,
			Reason: fmt.Sprintf("must not be after date_to (%s)", f.DateTo),
			Err:    ErrInvalidRequest,
		}
	}

	return nil
}

// FilterCategory identifies which filter field a catalog code belongs to.
type FilterCategory string

const (
	FilterIndustry FilterCategory = "industry"
	FilterDocType  FilterCategory = "doc_type"
	FilterTopic    FilterCategory = "topic"
)

// FilterOption describes one known filter code
type FilterOption struct {
	Category FilterCategory // Which filter field the code belongs to
	Code     string         // Wire value (e.g., "aml")
	Label    string         // Human-readable label for pickers
}

// FilterCatalog manages the known filter codes offered by pickers and used
// for advisory validation. The catalog is informational: backends accept
// codes the catalog has never heard of.
type FilterCatalog struct {
	options map[FilterCategory]map[string]FilterOption
	mu      sync.RWMutex
}

var (
	globalFilterCatalog     *FilterCatalog
	globalFilterCatalogOnce sync.Once
)

// GetFilterCatalog returns the global filter catalog (singleton)
func GetFilterCatalog() *FilterCatalog {
	globalFilterCatalogOnce.Do(func() {
		globalFilterCatalog = &FilterCatalog{
			options: make(map[FilterCategory]map[string]FilterOption),
		}
		// Register built-in codes
		globalFilterCatalog.registerBuiltInOptions()
	})
	return globalFilterCatalog
}

// registerBuiltInOptions registers the corpus's standing filter codes
func (c *FilterCatalog) registerBuiltInOptions() {
	builtIn := []FilterOption{
		{Category: FilterIndustry, Code: "banking", Label: "Banking"},
		{Category: FilterIndustry, Code: "securities", Label: "Securities"},
		{Category: FilterIndustry, Code: "insurance", Label: "Insurance"},
		{Category: FilterIndustry, Code: "fintech", Label: "Fintech"},
		{Category: FilterIndustry, Code: "payments", Label: "Payments"},
		{Category: FilterIndustry, Code: "asset-management", Label: "Asset Management"},

		{Category: FilterDocType, Code: "law", Label: "Law"},
		{Category: FilterDocType, Code: "decree", Label: "Enforcement Decree"},
		{Category: FilterDocType, Code: "regulation", Label: "Regulation"},
		{Category: FilterDocType, Code: "guideline", Label: "Supervisory Guideline"},
		{Category: FilterDocType, Code: "enforcement-action", Label: "Enforcement Action"},
		{Category: FilterDocType, Code: "press-release", Label: "Press Release"},
		{Category: FilterDocType, Code: "faq", Label: "Regulator FAQ"},

		{Category: FilterTopic, Code: "aml", Label: "Anti-Money Laundering"},
		{Category: FilterTopic, Code: "kyc", Label: "Know Your Customer"},
		{Category: FilterTopic, Code: "capital-adequacy", Label: "Capital Adequacy"},
		{Category: FilterTopic, Code: "consumer-protection", Label: "Consumer Protection"},
		{Category: FilterTopic, Code: "disclosure", Label: "Disclosure"},
		{Category: FilterTopic, Code: "data-privacy", Label: "Data Privacy"},
		{Category: FilterTopic, Code: "virtual-assets", Label: "Virtual Assets"},
		{Category: FilterTopic, Code: "esg", Label: "ESG"},
	}

	for _, opt := range builtIn {
		_ = c.Register(opt)
	}
}

// Register adds a filter option to the catalog
func (c *FilterCatalog) Register(opt FilterOption) error {
	if opt.Category == "" {
		return fmt.Errorf("filter category is required")
	}

	if opt.Code == "" {
		return fmt.Errorf("filter code is required for category %s", opt.Category)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	byCode, ok := c.options[opt.Category]
	if !ok {
		byCode = make(map[string]FilterOption)
		c.options[opt.Category] = byCode
	}

	if _, exists := byCode[opt.Code]; exists {
		return fmt.Errorf("filter code %s is already registered in category %s", opt.Code, opt.Category)
	}

	byCode[opt.Code] = opt
	return nil
}

// IsKnown checks if a code is registered in a category
func (c *FilterCatalog) IsKnown(category FilterCategory, code string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, exists := c.options[category][code]
	return exists
}

// Options returns the registered options for a category, sorted by code
func (c *FilterCatalog) Options(category FilterCategory) []FilterOption {
	c.mu.RLock()
	defer c.mu.RUnlock()

	opts := make([]FilterOption, 0, len(c.options[category]))
	for _, opt := range c.options[category] {
		opts = append(opts, opt)
	}
	sort.Slice(opts, func(i, j int) bool { return opts[i].Code < opts[j].Code })
	return opts
}

// RegisterFilterOption is a convenience function that registers an option with the global catalog
func RegisterFilterOption(opt FilterOption) error {
	return GetFilterCatalog().Register(opt)
}
