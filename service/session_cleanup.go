package service

import (
	"time"

	"wrenlabs/board-api/model"
	"wrenlabs/board-api/security"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type staleCheck struct {
	ID           string
	RefreshToken *string
}

// SessionCleanup periodically clears stored refresh tokens that no
// longer verify. Expired sessions already fail the refresh check, this
// just keeps dead tokens from sitting in the database forever
func SessionCleanup(t time.Duration, db *gorm.DB, tokens *security.TokenService) {
	ticker := time.NewTicker(t)

	zap.L().Debug("Session cleanup attached", zap.Duration("tick_every", t))

	go func() {
		for range ticker.C {
			var rows []staleCheck

			err := db.Model(model.Account{}).
				Where("refresh_token IS NOT NULL").
				Select("id", "refresh_token").
				Find(&rows).
				Error
			if err != nil {
				zap.L().Error("Failed to query db for sessions to clean", zap.Error(err))
				continue
			}

			var stale []string
			for _, r := range rows {
				if r.RefreshToken == nil {
					continue
				}
				if _, ok := tokens.Verify(*r.RefreshToken, security.RefreshToken); !ok {
					stale = append(stale, r.ID)
				}
			}

			if len(stale) == 0 {
				continue
			}

			err = db.Model(model.Account{}).
				Where("id IN ?", stale).
				Update("refresh_token", nil).
				Error
			if err != nil {
				zap.L().Error("Failed to clear stale sessions", zap.Error(err))
				continue
			}

			zap.L().Debug("Session cleanup finished", zap.Int("cleared", len(stale)))
		}
	}()
}
