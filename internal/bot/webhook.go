package bot

import (
	"net/http"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"crewhub-backend/internal/common/logger"
)

// WebhookHandler accepts Telegram update callbacks. Telegram expects a
// fast 200 regardless of handling outcome, so failures are only logged.
func (b *Bot) WebhookHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var update tgbotapi.Update
		if err := c.ShouldBindJSON(&update); err != nil {
			logger.Warn().Err(err).Msg("Malformed webhook update")
			c.Status(http.StatusOK)
			return
		}

		if err := b.HandleUpdate(c.Request.Context(), &update); err != nil {
			logger.Error().Err(err).Int("update_id", update.UpdateID).Msg("Failed to handle update")
		}

		c.Status(http.StatusOK)
	}
}
