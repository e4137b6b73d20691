package service

import (
	"errors"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"wrenlabs/board-api/apperr"
	"wrenlabs/board-api/model"
	"wrenlabs/board-api/security"
	"wrenlabs/board-api/util"
	"wrenlabs/board-api/validators"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Attachments stores post attachments on local disk, one directory per
// post, so a post's files can be dropped with a single recursive remove
type Attachments struct {
	DB   *gorm.DB
	Root string
}

func NewAttachments(db *gorm.DB) *Attachments {
	return &Attachments{DB: db, Root: viper.GetString("storage.root")}
}

func (s *Attachments) dirFor(postID string) string {
	return filepath.Join(s.Root, postID)
}

// storedName keeps the original name recognizable but adds a short
// random suffix so same-named siblings never collide. The name is
// stripped to its base first so a crafted filename can't walk out of
// the post directory
func storedName(original string) string {
	base := filepath.Base(original)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" || stem == "." {
		stem = "file"
	}

	return stem + "_" + util.RandStr(6) + ext
}

// Upload validates the whole batch first and only then touches the disk.
// Either every file lands and gets a record, or nothing does
func (s *Attachments) Upload(postID, actorID string, actorRole model.Role, files []*multipart.FileHeader) ([]model.Attachment, error) {
	var post model.Post
	err := s.DB.Where("id = ?", postID).First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Post not found")
		}
		return nil, apperr.Internal(err)
	}

	if !security.Decide(actorRole, actorID, post.OwnerID) {
		return nil, apperr.Forbidden("You don't have access to this post")
	}

	if err := validators.AttachmentBatch(files); err != nil {
		return nil, apperr.BadRequest(err.Error())
	}

	dir := s.dirFor(postID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperr.Internal(err)
	}

	written := make([]string, 0, len(files))
	cleanup := func() {
		for _, p := range written {
			if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
				zap.L().Error("Failed to cleanup after failed upload", zap.String("path", p), zap.Error(err))
			}
		}
	}

	records := make([]model.Attachment, 0, len(files))

	for _, fh := range files {
		name := storedName(fh.Filename)
		// The suffix makes collisions unlikely, not impossible
		dst := filepath.Join(dir, name)
		for {
			if _, err := os.Stat(dst); errors.Is(err, fs.ErrNotExist) {
				break
			}
			name = storedName(fh.Filename)
			dst = filepath.Join(dir, name)
		}

		if err := saveFile(fh, dst); err != nil {
			cleanup()
			return nil, apperr.Internal(err)
		}
		written = append(written, dst)

		id, err := newID()
		if err != nil {
			cleanup()
			return nil, apperr.Internal(err)
		}

		records = append(records, model.Attachment{
			ID:           id,
			PostID:       postID,
			OriginalName: filepath.Base(fh.Filename),
			StoredName:   name,
			Path:         dst,
			MimeType:     strings.TrimSpace(strings.Split(fh.Header.Get("Content-Type"), ";")[0]),
			Size:         fh.Size,
		})
	}

	if err := s.DB.Create(&records).Error; err != nil {
		cleanup()
		return nil, apperr.Internal(err)
	}

	return records, nil
}

func saveFile(fh *multipart.FileHeader, dst string) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}

func (s *Attachments) List(postID, actorID string, actorRole model.Role) ([]model.Attachment, error) {
	var post model.Post
	err := s.DB.Where("id = ?", postID).First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Post not found")
		}
		return nil, apperr.Internal(err)
	}

	if !security.Decide(actorRole, actorID, post.OwnerID) {
		return nil, apperr.Forbidden("You don't have access to this post")
	}

	var atts []model.Attachment
	err = s.DB.Where("post_id = ?", postID).
		Order("created_at asc").
		Find(&atts).
		Error
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return atts, nil
}

// Get resolves an attachment and checks the actor against the owning
// post's owner
func (s *Attachments) Get(id, actorID string, actorRole model.Role) (*model.Attachment, error) {
	var att model.Attachment
	err := s.DB.Where("id = ?", id).First(&att).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Attachment not found")
		}
		return nil, apperr.Internal(err)
	}

	var post model.Post
	err = s.DB.Where("id = ?", att.PostID).First(&post).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}

	if !security.Decide(actorRole, actorID, post.OwnerID) {
		return nil, apperr.Forbidden("You don't have access to this attachment")
	}

	return &att, nil
}

// DeleteOne removes the payload and then the record. A payload that's
// already gone from disk counts as deleted, not as an error
func (s *Attachments) DeleteOne(id, actorID string, actorRole model.Role) error {
	att, err := s.Get(id, actorID, actorRole)
	if err != nil {
		return err
	}

	if err := os.Remove(att.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return apperr.Internal(err)
	}

	if err := s.DB.Delete(att).Error; err != nil {
		return apperr.Internal(err)
	}

	return nil
}

// RemoveAllForPost drops the post's whole attachment directory in one
// recursive operation. A missing directory is fine
func (s *Attachments) RemoveAllForPost(postID string) error {
	return os.RemoveAll(s.dirFor(postID))
}
