// Package fixtures holds the mock datasets the gateway is seeded with.
// Every accessor returns a fresh copy.
package fixtures

import "renohub/internal/domain"

func budget(v int64) *int64 { return &v }

// Projects returns the seed project list, newest first.
func Projects() []domain.Project {
	return []domain.Project{
		{
			ID:          "2",
			Name:        "港区オフィス改修",
			ClientName:  "Tech Corp",
			Address:     "東京都港区...",
			Status:      domain.StatusSurvey,
			Date:        "2023-10-28",
			TotalBudget: budget(32000000),
		},
		{
			ID:          "1",
			Name:        "渋谷区S邸 リノベーション",
			ClientName:  "佐藤 様",
			Address:     "東京都渋谷区神宮前 1-1-1",
			Status:      domain.StatusPlanning,
			Date:        "2023-10-25",
			Description: "築20年のマンションリノベーション。LDKの拡張と、書斎の設置がメインの要望。北欧スタイルを希望。",
			TotalBudget: budget(15000000),
		},
		{
			ID:          "5",
			Name:        "新宿テナント工事",
			ClientName:  "Dining Bar X",
			Address:     "東京都新宿区...",
			Status:      domain.StatusEstimation,
			Date:        "2023-10-20",
			TotalBudget: budget(8500000),
		},
		{
			ID:          "3",
			Name:        "横浜K邸 キッチン改装",
			ClientName:  "加藤 様",
			Address:     "神奈川県横浜市...",
			Status:      domain.StatusConstruction,
			Date:        "2023-10-15",
			TotalBudget: budget(5000000),
		},
		{
			ID:          "4",
			Name:        "目黒区M邸 フルリノベ",
			ClientName:  "松本 様",
			Address:     "東京都目黒区...",
			Status:      domain.StatusCompleted,
			Date:        "2023-09-10",
			TotalBudget: budget(22000000),
		},
	}
}
