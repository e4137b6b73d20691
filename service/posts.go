package service

import (
	"errors"
	"strings"

	"wrenlabs/board-api/apperr"
	"wrenlabs/board-api/model"
	"wrenlabs/board-api/security"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Posts struct {
	DB          *gorm.DB
	Attachments *Attachments
}

func NewPosts(db *gorm.DB, att *Attachments) *Posts {
	return &Posts{DB: db, Attachments: att}
}

type PostInput struct {
	Title     string
	Body      string
	Published bool
}

type PostUpdate struct {
	Title     *string
	Body      *string
	Published *bool
}

func (s *Posts) Create(ownerID string, in PostInput) (*model.Post, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperr.Validation("Invalid post data", map[string]string{"title": "title can't be empty"})
	}

	id, err := newID()
	if err != nil {
		return nil, apperr.Internal(err)
	}

	post := &model.Post{
		ID:        id,
		OwnerID:   ownerID,
		Title:     in.Title,
		Body:      in.Body,
		Published: in.Published,
	}

	if err := s.DB.Create(post).Error; err != nil {
		return nil, apperr.Internal(err)
	}

	return post, nil
}

func (s *Posts) List(actorID string, actorRole model.Role, page, limit int, search string) ([]model.Post, Pagination, error) {
	q := s.DB.Model(&model.Post{})
	if !security.HasRole(actorRole, model.RoleAdmin) {
		q = q.Where("owner_id = ?", actorID)
	}
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(body) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, Pagination{}, apperr.Internal(err)
	}

	var posts []model.Post
	err := q.Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&posts).
		Error
	if err != nil {
		return nil, Pagination{}, apperr.Internal(err)
	}

	return posts, makePagination(page, limit, total, search), nil
}

func (s *Posts) Get(id, actorID string, actorRole model.Role) (*model.Post, error) {
	var post model.Post
	err := s.DB.Where("id = ?", id).First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Post not found")
		}
		return nil, apperr.Internal(err)
	}

	if !security.Decide(actorRole, actorID, post.OwnerID) {
		return nil, apperr.Forbidden("You don't have access to this post")
	}

	return &post, nil
}

func (s *Posts) Update(id, actorID string, actorRole model.Role, in PostUpdate) (*model.Post, error) {
	post, err := s.Get(id, actorID, actorRole)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, apperr.Validation("Invalid post data", map[string]string{"title": "title can't be empty"})
		}
		post.Title = *in.Title
	}
	if in.Body != nil {
		post.Body = *in.Body
	}
	if in.Published != nil {
		post.Published = *in.Published
	}

	if err := s.DB.Save(post).Error; err != nil {
		return nil, apperr.Internal(err)
	}

	return post, nil
}

// Delete removes the post, its attachment records and the whole payload
// directory in one recursive sweep
func (s *Posts) Delete(id, actorID string, actorRole model.Role) error {
	post, err := s.Get(id, actorID, actorRole)
	if err != nil {
		return err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(model.Attachment{}).Error; err != nil {
			return err
		}
		return tx.Delete(post).Error
	})
	if err != nil {
		return apperr.Internal(err)
	}

	if err := s.Attachments.RemoveAllForPost(post.ID); err != nil {
		zap.L().Error("Failed to remove attachment directory", zap.String("postID", post.ID), zap.Error(err))
	}

	return nil
}
