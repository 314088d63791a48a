package fixtures

import "renohub/internal/domain"

// ChannelGroups returns the vendor channels grouped by project.
func ChannelGroups() []domain.ChannelGroup {
	return []domain.ChannelGroup{
		{
			ProjectID: "1",
			Name:      "渋谷区S邸 リノベーション",
			Channels: []domain.ChatChannel{
				{ID: "c1", ProjectID: "1", Category: domain.CategoryElectrical, VendorName: "株式会社エレテック", LastMessage: "見積書の修正版をお送りします。", UnreadCount: 2, EstimateID: "e1"},
				{ID: "c2", ProjectID: "1", Category: domain.CategoryHVAC, VendorName: "ビル管理空調サービス", LastMessage: "現場調査の日程について", EstimateID: "e2"},
			},
		},
		{
			ProjectID: "2",
			Name:      "港区オフィス改修",
			Channels: []domain.ChatChannel{
				{ID: "c3", ProjectID: "2", Category: domain.CategoryPartition, VendorName: "オカムラ施工", LastMessage: "承知いたしました。", EstimateID: "e5"},
				{ID: "c4", ProjectID: "2", Category: domain.CategoryNetwork, VendorName: "ネットワンシステムズ", LastMessage: "LAN配線図の確認をお願いします", UnreadCount: 3, EstimateID: "e6"},
			},
		},
		{
			ProjectID: "3",
			Name:      "横浜K邸 キッチン改装",
			Channels: []domain.ChatChannel{
				{ID: "c5", ProjectID: "3", Category: domain.CategoryMoving, VendorName: "アート引越センター", LastMessage: "廃棄物の量について教えてください", EstimateID: "e7"},
			},
		},
	}
}

// Transcripts returns the seeded message history keyed by channel ID.
func Transcripts() map[string][]domain.ChatMessage {
	return map[string][]domain.ChatMessage{
		"c1": {
			{ID: "seed-c1-1", Role: domain.RoleModel, Text: "お世話になっております。株式会社エレテックの田中です。\n先日ご依頼いただいた渋谷区S邸の電気工事見積もりについてご連絡いたしました。", Timestamp: "10:00"},
			{ID: "seed-c1-2", Role: domain.RoleUser, Text: "田中様\nお世話になります。見積もり拝見しました。コンセント増設の箇所ですが、図面のB案でお願いできますでしょうか？", Timestamp: "10:05"},
			{ID: "seed-c1-3", Role: domain.RoleModel, Text: "承知いたしました。B案（書斎側へ2箇所追加）で再計算し、本日中に再提出いたします。", Timestamp: "10:15"},
		},
	}
}
