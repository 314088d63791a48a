package fixtures

import "renohub/internal/domain"

// Estimates returns the seed estimate sheets keyed by project ID.
func Estimates() map[string][]domain.EstimateItem {
	return map[string][]domain.EstimateItem{
		"1": {
			{
				ID:         "e1",
				Category:   domain.CategoryElectrical,
				AIEstimate: 450000,
				VendorQuotes: []domain.VendorQuote{
					{
						VendorName:     "株式会社エレテック",
						Amount:         480000,
						Selected:       true,
						IsSubmitted:    true,
						SubmissionDate: "2023-10-26",
						FileName:       "見積書_エレテック_v2.pdf",
						Details: []domain.QuoteDetailItem{
							{Name: "材料費", Amount: 210000},
							{Name: "施工費", Amount: 230000},
							{Name: "諸経費", Amount: 40000},
						},
					},
					{
						VendorName:     "渋谷電気工事",
						Amount:         520000,
						IsSubmitted:    true,
						SubmissionDate: "2023-10-27",
						FileName:       "渋谷電気_御見積.pdf",
					},
				},
			},
			{
				ID:         "e2",
				Category:   domain.CategoryHVAC,
				AIEstimate: 800000,
				VendorQuotes: []domain.VendorQuote{
					{
						VendorName:     "ビル管理空調サービス",
						Amount:         750000,
						Selected:       true,
						IsSubmitted:    true,
						SubmissionDate: "2023-10-26",
					},
				},
			},
			{
				ID:         "e3",
				Category:   domain.CategoryPartition,
				AIEstimate: 1200000,
				VendorQuotes: []domain.VendorQuote{
					{
						VendorName:     "コマニー代理店",
						Amount:         1150000,
						IsSubmitted:    true,
						SubmissionDate: "2023-10-27",
					},
					{
						VendorName:     "オカムラ施工",
						Amount:         1250000,
						Selected:       true,
						IsSubmitted:    true,
						SubmissionDate: "2023-10-25",
					},
				},
			},
			{
				ID:           "e4",
				Category:     domain.CategoryNetwork,
				AIEstimate:   300000,
				VendorQuotes: []domain.VendorQuote{},
			},
		},
		"2": {
			{
				ID:         "e5",
				Category:   domain.CategoryPartition,
				AIEstimate: 2400000,
				VendorQuotes: []domain.VendorQuote{
					{VendorName: "オカムラ施工", Amount: 2350000, IsSubmitted: true, SubmissionDate: "2023-10-29"},
				},
			},
			{
				ID:         "e6",
				Category:   domain.CategoryNetwork,
				AIEstimate: 900000,
				VendorQuotes: []domain.VendorQuote{
					{VendorName: "ネットワンシステムズ", IsSubmitted: false},
				},
			},
		},
		"3": {
			{
				ID:         "e7",
				Category:   domain.CategoryMoving,
				AIEstimate: 180000,
				VendorQuotes: []domain.VendorQuote{
					{VendorName: "アート引越センター", Amount: 165000, Selected: true, IsSubmitted: true, SubmissionDate: "2023-10-16"},
				},
			},
		},
	}
}
