package domain

// CostCategory classifies estimate items and vendor channels.
type CostCategory string

const (
	CategoryElectrical CostCategory = "electrical"
	CategoryHVAC       CostCategory = "hvac"
	CategoryFireSafety CostCategory = "fire_safety"
	CategoryPartition  CostCategory = "partition"
	CategoryFurniture  CostCategory = "furniture"
	CategoryNetwork    CostCategory = "network"
	CategoryMoving     CostCategory = "moving"
)

var categoryLabels = map[CostCategory]string{
	CategoryElectrical: "電気設備",
	CategoryHVAC:       "空調設備",
	CategoryFireSafety: "防災設備",
	CategoryPartition:  "パーティション",
	CategoryFurniture:  "什器・家具",
	CategoryNetwork:    "ネットワーク",
	CategoryMoving:     "引越し",
}

func (c CostCategory) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// QuoteDetailItem is one line of a vendor quote breakdown.
type QuoteDetailItem struct {
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
}

// VendorQuote is one vendor's priced response to an estimate item.
// Selected implies IsSubmitted.
type VendorQuote struct {
	VendorName     string            `json:"vendorName"`
	Amount         int64             `json:"amount"`
	Selected       bool              `json:"selected"`
	IsSubmitted    bool              `json:"isSubmitted"`
	SubmissionDate string            `json:"submissionDate,omitempty"`
	FileName       string            `json:"fileName,omitempty"`
	Details        []QuoteDetailItem `json:"details,omitempty"`
}

// EstimateItem holds one category's AI ballpark and the vendor quotes
// collected for it. At most one quote is selected.
type EstimateItem struct {
	ID           string        `json:"id"`
	Category     CostCategory  `json:"category"`
	AIEstimate   int64         `json:"aiEstimate"`
	VendorQuotes []VendorQuote `json:"vendorQuotes"`
}

// Clone returns a deep copy so callers can mutate without aliasing
// fixture or store state.
func (e EstimateItem) Clone() EstimateItem {
	out := e
	out.VendorQuotes = make([]VendorQuote, len(e.VendorQuotes))
	for i, q := range e.VendorQuotes {
		q.Details = append([]QuoteDetailItem(nil), q.Details...)
		out.VendorQuotes[i] = q
	}
	return out
}

func CloneEstimateItems(items []EstimateItem) []EstimateItem {
	out := make([]EstimateItem, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}
