package service

import (
	"errors"
	"strings"

	"wrenlabs/board-api/apperr"
	"wrenlabs/board-api/model"
	"wrenlabs/board-api/security"

	"gorm.io/gorm"
)

type Todos struct {
	DB *gorm.DB
}

func NewTodos(db *gorm.DB) *Todos { return &Todos{DB: db} }

type TodoInput struct {
	Title   string
	Content string
}

type TodoUpdate struct {
	Title   *string
	Content *string
	Done    *bool
}

// Create always sets the owner to the acting account, never to anything
// the caller supplied
func (s *Todos) Create(ownerID string, in TodoInput) (*model.Todo, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperr.Validation("Invalid todo data", map[string]string{"title": "title can't be empty"})
	}

	id, err := newID()
	if err != nil {
		return nil, apperr.Internal(err)
	}

	todo := &model.Todo{
		ID:      id,
		OwnerID: ownerID,
		Title:   in.Title,
		Content: in.Content,
	}

	if err := s.DB.Create(todo).Error; err != nil {
		return nil, apperr.Internal(err)
	}

	return todo, nil
}

// List returns the actor's own todos, or every todo for an admin
func (s *Todos) List(actorID string, actorRole model.Role, page, limit int, search string) ([]model.Todo, Pagination, error) {
	q := s.DB.Model(&model.Todo{})
	if !security.HasRole(actorRole, model.RoleAdmin) {
		q = q.Where("owner_id = ?", actorID)
	}
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, Pagination{}, apperr.Internal(err)
	}

	var todos []model.Todo
	err := q.Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&todos).
		Error
	if err != nil {
		return nil, Pagination{}, apperr.Internal(err)
	}

	return todos, makePagination(page, limit, total, search), nil
}

func (s *Todos) Get(id, actorID string, actorRole model.Role) (*model.Todo, error) {
	var todo model.Todo
	err := s.DB.Where("id = ?", id).First(&todo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Todo not found")
		}
		return nil, apperr.Internal(err)
	}

	if !security.Decide(actorRole, actorID, todo.OwnerID) {
		return nil, apperr.Forbidden("You don't have access to this todo")
	}

	return &todo, nil
}

func (s *Todos) Update(id, actorID string, actorRole model.Role, in TodoUpdate) (*model.Todo, error) {
	todo, err := s.Get(id, actorID, actorRole)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, apperr.Validation("Invalid todo data", map[string]string{"title": "title can't be empty"})
		}
		todo.Title = *in.Title
	}
	if in.Content != nil {
		todo.Content = *in.Content
	}
	if in.Done != nil {
		todo.Done = *in.Done
	}

	if err := s.DB.Save(todo).Error; err != nil {
		return nil, apperr.Internal(err)
	}

	return todo, nil
}

func (s *Todos) Delete(id, actorID string, actorRole model.Role) error {
	todo, err := s.Get(id, actorID, actorRole)
	if err != nil {
		return err
	}

	if err := s.DB.Delete(todo).Error; err != nil {
		return apperr.Internal(err)
	}

	return nil
}
