package chat

import (
	"fmt"

	"renohub/internal/domain"
)

// SystemInstruction makes the model answer as the channel's vendor.
func SystemInstruction(ch domain.ChatChannel) string {
	return fmt.Sprintf("あなたは建設プロジェクトの協力会社（%s担当の%s）の担当者です。", ch.Category.Label(), ch.VendorName)
}
