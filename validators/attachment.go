package validators

import (
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/viper"
)

var (
	ErrNoFiles             = errors.New("no files provided")
	ErrTooManyFiles        = errors.New("too many files in one batch")
	ErrFileTooLarge        = errors.New("file too large")
	ErrFileNameTooLong     = errors.New("file name is too long")
	ErrFileTypeUnsupported = errors.New("unsupported file type")
)

// Fixed allow-list of attachment types. Anything else is rejected at
// upload time no matter what the bytes look like
var allowedMimeTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"text/plain",
}

const maxFileNameSize = 245

// AttachmentBatch validates a whole upload batch before a single byte is
// written anywhere. The first offending file fails the entire batch
func AttachmentBatch(files []*multipart.FileHeader) error {
	if len(files) == 0 {
		return ErrNoFiles
	}

	if len(files) > viper.GetInt("upload.max_files") {
		return ErrTooManyFiles
	}

	maxFileSize := viper.GetInt64("upload.max_size")

	for _, fh := range files {
		if len(fh.Filename) > maxFileNameSize {
			return fmt.Errorf("%w: %s", ErrFileNameTooLong, fh.Filename)
		}

		if fh.Size > maxFileSize {
			return fmt.Errorf("%w: %s", ErrFileTooLarge, fh.Filename)
		}

		// Check the declared type first, which is easy to spoof but
		// fast for legit clients
		declared := strings.TrimSpace(strings.Split(fh.Header.Get("Content-Type"), ";")[0])
		if !typeAllowed(declared) {
			return fmt.Errorf("%w: %s", ErrFileTypeUnsupported, declared)
		}

		// And now sniff the actual bytes to catch malicious clients
		f, err := fh.Open()
		if err != nil {
			return err
		}

		mime, err := mimetype.DetectReader(f)
		f.Close()
		if err != nil {
			return err
		}

		if !sniffAllowed(mime) {
			return fmt.Errorf("%w: %s", ErrFileTypeUnsupported, mime.String())
		}
	}

	return nil
}

func typeAllowed(t string) bool {
	for _, a := range allowedMimeTypes {
		if t == a {
			return true
		}
	}
	return false
}

// sniffAllowed walks the detected type and its parents so subtypes still
// pass, e.g. a .txt holding JSON detects as application/json whose parent
// is text/plain
func sniffAllowed(m *mimetype.MIME) bool {
	for ; m != nil; m = m.Parent() {
		for _, a := range allowedMimeTypes {
			if m.Is(a) {
				return true
			}
		}
	}
	return false
}
