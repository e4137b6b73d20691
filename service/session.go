package service

import (
	"errors"

	"wrenlabs/board-api/apperr"
	"wrenlabs/board-api/model"
	"wrenlabs/board-api/security"

	"gorm.io/gorm"
)

// Kept deliberately identical for the unknown-email and wrong-password
// paths so responses don't reveal whether an account exists
const invalidCredentialsMsg = "Invalid credentials"

const invalidRefreshMsg = "Invalid or expired refresh token"

// Sessions implements login, refresh rotation and logout on top of the
// single refresh-token slot each account carries
type Sessions struct {
	DB     *gorm.DB
	Argon  *security.ArgonHash
	Tokens *security.TokenService
}

func NewSessions(db *gorm.DB, argon *security.ArgonHash, tokens *security.TokenService) *Sessions {
	return &Sessions{DB: db, Argon: argon, Tokens: tokens}
}

type AuthResult struct {
	Account      *model.Account
	AccessToken  string
	RefreshToken string
}

// IssueFor hands out a fresh token pair and stores the refresh token,
// silently replacing whatever session existed before. Each account
// holds at most one session
func (s *Sessions) IssueFor(acc *model.Account) (*AuthResult, error) {
	access, refresh, err := s.Tokens.IssuePair(security.Identity{
		AccountID: acc.ID,
		Email:     acc.Email,
		Role:      acc.Role,
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}

	err = s.DB.Model(model.Account{}).
		Where("id = ?", acc.ID).
		Update("refresh_token", refresh).
		Error
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return &AuthResult{Account: acc, AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Sessions) Login(email, password string) (*AuthResult, error) {
	var acc model.Account
	err := s.DB.Where("email = ?", email).First(&acc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthorized(invalidCredentialsMsg)
		}
		return nil, apperr.Internal(err)
	}

	ok, err := s.Argon.VerifyPasswd(password, acc.PasswordHash)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if !ok {
		return nil, apperr.Unauthorized(invalidCredentialsMsg)
	}

	// Unlike the two cases above this one is allowed to be specific:
	// the caller just proved they own the credentials
	if acc.Status != model.StatusActive {
		return nil, apperr.Forbidden("Account is disabled")
	}

	return s.IssueFor(&acc)
}

// Refresh rotates the session: the presented token must verify AND match
// the stored value AND the account must still be active. The swap is a
// single conditional update so two racing refreshes can't both win
func (s *Sessions) Refresh(raw string) (*AuthResult, error) {
	id, ok := s.Tokens.Verify(raw, security.RefreshToken)
	if !ok {
		return nil, apperr.Unauthorized(invalidRefreshMsg)
	}

	var acc model.Account
	err := s.DB.Where("id = ?", id.AccountID).First(&acc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthorized(invalidRefreshMsg)
		}
		return nil, apperr.Internal(err)
	}

	if acc.Status != model.StatusActive {
		return nil, apperr.Unauthorized(invalidRefreshMsg)
	}

	// Claims come from the current row, not the old token, so role
	// changes propagate on the next rotation
	access, refresh, err := s.Tokens.IssuePair(security.Identity{
		AccountID: acc.ID,
		Email:     acc.Email,
		Role:      acc.Role,
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}

	res := s.DB.Model(model.Account{}).
		Where("id = ? AND refresh_token = ?", acc.ID, raw).
		Update("refresh_token", refresh)
	if res.Error != nil {
		return nil, apperr.Internal(res.Error)
	}

	// No row matched: the token was rotated out or the session was
	// logged out elsewhere. Indistinguishable from invalid on purpose
	if res.RowsAffected == 0 {
		return nil, apperr.Unauthorized(invalidRefreshMsg)
	}

	return &AuthResult{Account: &acc, AccessToken: access, RefreshToken: refresh}, nil
}

// Logout drops the stored refresh token. The access token stays valid
// until its own expiry, stateless tokens aren't revocable
func (s *Sessions) Logout(accountID string) error {
	err := s.DB.Model(model.Account{}).
		Where("id = ?", accountID).
		Update("refresh_token", nil).
		Error
	if err != nil {
		return apperr.Internal(err)
	}

	return nil
}
