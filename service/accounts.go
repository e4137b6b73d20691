package service

import (
	"errors"
	"strings"
	"time"

	"wrenlabs/board-api/apperr"
	"wrenlabs/board-api/model"
	"wrenlabs/board-api/security"
	"wrenlabs/board-api/validators"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Accounts owns the account lifecycle. It is the only component that
// writes role, status and password fields
type Accounts struct {
	DB          *gorm.DB
	Argon       *security.ArgonHash
	Attachments *Attachments
}

func NewAccounts(db *gorm.DB, argon *security.ArgonHash, att *Attachments) *Accounts {
	return &Accounts{DB: db, Argon: argon, Attachments: att}
}

type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
	Phone       *string
	BirthDate   *time.Time
}

type AdminCreateInput struct {
	RegisterInput
	Role   model.Role
	Status model.Status
}

type ProfileUpdate struct {
	DisplayName *string
	Phone       *string
	BirthDate   *time.Time
}

func validateRegistration(in RegisterInput) *apperr.Error {
	fields := map[string]string{}

	if err := validators.EmailValidator(in.Email); err != nil {
		fields["email"] = err.Error()
	}

	if err := validators.PasswordValidator(in.Password); err != nil {
		fields["password"] = err.Error()
	}

	if strings.TrimSpace(in.DisplayName) == "" {
		fields["display_name"] = "display name can't be empty"
	}

	if len(fields) > 0 {
		return apperr.Validation("Invalid registration data", fields)
	}

	return nil
}

// create is shared by the three creation paths. Role and status are
// decided by the caller, never by the input
func (s *Accounts) create(in RegisterInput, role model.Role, status model.Status) (*model.Account, error) {
	if err := validateRegistration(in); err != nil {
		return nil, err
	}

	var found bool
	err := s.DB.Model(model.Account{}).
		Select("count(*) > 0").
		Where("email = ?", in.Email).
		Find(&found).
		Error
	if err != nil {
		return nil, apperr.Internal(err)
	}

	if found {
		return nil, apperr.Conflict("This email is already registered")
	}

	hash, err := s.Argon.GenerateFromPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	id, err := newID()
	if err != nil {
		return nil, apperr.Internal(err)
	}

	acc := &model.Account{
		ID:           id,
		Email:        in.Email,
		PasswordHash: hash,
		DisplayName:  in.DisplayName,
		Phone:        in.Phone,
		BirthDate:    in.BirthDate,
		Role:         role,
		Status:       status,
	}

	if err := s.DB.Create(acc).Error; err != nil {
		// Unique index on email closes the check-then-create race
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return nil, apperr.Conflict("This email is already registered")
		}
		return nil, apperr.Internal(err)
	}

	return acc, nil
}

// Bootstrap creates the very first admin. Works exactly once
func (s *Accounts) Bootstrap(in RegisterInput) (*model.Account, error) {
	var admins int64
	err := s.DB.Model(model.Account{}).
		Where("role = ?", model.RoleAdmin).
		Count(&admins).
		Error
	if err != nil {
		return nil, apperr.Internal(err)
	}

	if admins > 0 {
		return nil, apperr.Conflict("An admin account already exists")
	}

	return s.create(in, model.RoleAdmin, model.StatusActive)
}

// Register is public self-registration. Always a plain active user
func (s *Accounts) Register(in RegisterInput) (*model.Account, error) {
	return s.create(in, model.RoleUser, model.StatusActive)
}

// AdminCreate lets an admin pick role and status explicitly
func (s *Accounts) AdminCreate(in AdminCreateInput) (*model.Account, error) {
	fields := map[string]string{}
	if !in.Role.Valid() {
		fields["role"] = "unknown role"
	}
	if !in.Status.Valid() {
		fields["status"] = "unknown status"
	}
	if len(fields) > 0 {
		return nil, apperr.Validation("Invalid account data", fields)
	}

	return s.create(in.RegisterInput, in.Role, in.Status)
}

func (s *Accounts) Get(id string) (*model.Account, error) {
	var acc model.Account
	err := s.DB.Where("id = ?", id).First(&acc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Account not found")
		}
		return nil, apperr.Internal(err)
	}
	return &acc, nil
}

// List returns a page of accounts, optionally filtered by an email or
// display name match. Admin-only at the route level
func (s *Accounts) List(page, limit int, search string) ([]model.Account, Pagination, error) {
	q := s.DB.Model(&model.Account{})
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(email) LIKE ? OR LOWER(display_name) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, Pagination{}, apperr.Internal(err)
	}

	var accounts []model.Account
	err := q.Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&accounts).
		Error
	if err != nil {
		return nil, Pagination{}, apperr.Internal(err)
	}

	return accounts, makePagination(page, limit, total, search), nil
}

func (s *Accounts) UpdateProfile(id string, in ProfileUpdate) (*model.Account, error) {
	acc, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if in.DisplayName != nil {
		if strings.TrimSpace(*in.DisplayName) == "" {
			return nil, apperr.Validation("Invalid profile data", map[string]string{
				"display_name": "display name can't be empty",
			})
		}
		acc.DisplayName = *in.DisplayName
	}
	if in.Phone != nil {
		acc.Phone = in.Phone
	}
	if in.BirthDate != nil {
		acc.BirthDate = in.BirthDate
	}

	if err := s.DB.Save(acc).Error; err != nil {
		return nil, apperr.Internal(err)
	}

	return acc, nil
}

func (s *Accounts) UpdateRole(id string, role model.Role) (*model.Account, error) {
	if !role.Valid() {
		return nil, apperr.Validation("Invalid role", map[string]string{"role": "unknown role"})
	}

	acc, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	acc.Role = role
	if err := s.DB.Save(acc).Error; err != nil {
		return nil, apperr.Internal(err)
	}

	return acc, nil
}

func (s *Accounts) UpdateStatus(id string, status model.Status) (*model.Account, error) {
	if !status.Valid() {
		return nil, apperr.Validation("Invalid status", map[string]string{"status": "unknown status"})
	}

	acc, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	acc.Status = status
	if err := s.DB.Save(acc).Error; err != nil {
		return nil, apperr.Internal(err)
	}

	return acc, nil
}

// ChangePassword swaps the stored hash after re-verifying the current one
func (s *Accounts) ChangePassword(id, current, next string) error {
	acc, err := s.Get(id)
	if err != nil {
		return err
	}

	ok, err := s.Argon.VerifyPasswd(current, acc.PasswordHash)
	if err != nil {
		return apperr.Internal(err)
	}
	if !ok {
		return apperr.BadRequest("Current password is incorrect")
	}

	if err := validators.PasswordValidator(next); err != nil {
		return apperr.Validation("Invalid new password", map[string]string{"new_password": err.Error()})
	}

	hash, err := s.Argon.GenerateFromPassword(next)
	if err != nil {
		return apperr.Internal(err)
	}

	err = s.DB.Model(model.Account{}).
		Where("id = ?", id).
		Update("password_hash", hash).
		Error
	if err != nil {
		return apperr.Internal(err)
	}

	return nil
}

// Delete removes an account together with everything it owns: todos,
// posts, attachment records and the attachment payloads on disk. An
// admin can never target themselves so at least one admin survives
func (s *Accounts) Delete(targetID, actingAdminID string) error {
	if targetID == actingAdminID {
		return apperr.Forbidden("You can't delete your own account")
	}

	if _, err := s.Get(targetID); err != nil {
		return err
	}

	var postIDs []string
	err := s.DB.Model(model.Post{}).
		Where("owner_id = ?", targetID).
		Pluck("id", &postIDs).
		Error
	if err != nil {
		return apperr.Internal(err)
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if len(postIDs) > 0 {
			if err := tx.Where("post_id IN ?", postIDs).Delete(model.Attachment{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("owner_id = ?", targetID).Delete(model.Post{}).Error; err != nil {
			return err
		}

		if err := tx.Where("owner_id = ?", targetID).Delete(model.Todo{}).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", targetID).Delete(model.Account{}).Error
	})
	if err != nil {
		return apperr.Internal(err)
	}

	// Disk cleanup runs after the commit. A leftover directory is only
	// wasted space, a dangling record would be a lie
	for _, pid := range postIDs {
		if err := s.Attachments.RemoveAllForPost(pid); err != nil {
			zap.L().Error("Failed to remove attachment directory", zap.String("postID", pid), zap.Error(err))
		}
	}

	return nil
}
