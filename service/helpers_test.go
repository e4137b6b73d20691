package service

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"testing"

	"wrenlabs/board-api/db"
	"wrenlabs/board-api/model"
	"wrenlabs/board-api/security"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))

	return conn
}

func setTestConfig(t *testing.T) {
	t.Helper()

	viper.Set("jwt.access_secret", "test-access-secret")
	viper.Set("jwt.refresh_secret", "test-refresh-secret")
	viper.Set("jwt.access_ttl_min", 15)
	viper.Set("jwt.refresh_ttl_days", 7)
	viper.Set("upload.max_files", 10)
	viper.Set("upload.max_size", int64(5<<20))
	viper.Set("storage.root", t.TempDir())
}

func newTestAccounts(t *testing.T) (*Accounts, *gorm.DB) {
	t.Helper()

	setTestConfig(t)
	conn := newTestDB(t)
	att := NewAttachments(conn)

	return NewAccounts(conn, security.NewArgon(), att), conn
}

func registered(t *testing.T, accounts *Accounts, email string) *model.Account {
	t.Helper()

	acc, err := accounts.Register(RegisterInput{
		Email:       email,
		Password:    "Sup3rSecret!",
		DisplayName: "Test User",
	})
	require.NoError(t, err)

	return acc
}

// multipartFiles builds real multipart file headers the way gin would
// hand them to a handler
func multipartFiles(t *testing.T, files map[string][]byte) []*multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	for name, content := range files {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="files"; filename="`+name+`"`)
		h.Set("Content-Type", sniffHint(name))

		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	return req.MultipartForm.File["files"]
}

func sniffHint(name string) string {
	switch filepath.Ext(name) {
	case ".png":
		return "image/png"
	case ".pdf":
		return "application/pdf"
	case ".exe":
		return "application/octet-stream"
	default:
		return "text/plain"
	}
}

// pngBytes is a minimal valid PNG header, enough for sniffing
func pngBytes() []byte {
	return []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
		0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52}
}
