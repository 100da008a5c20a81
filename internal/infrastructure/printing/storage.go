package printing

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/garage/invoicer/internal/domain/printing"
)

// DocumentStorage persists rendered documents and returns where they went
type DocumentStorage interface {
	// Save stores doc and returns its location (a path or URL)
	Save(ctx context.Context, doc *printing.Document) (string, error)
}

// FileSystemStorageConfig configures FileSystemStorage
type FileSystemStorageConfig struct {
	// BasePath is the invoice directory, created when missing. Default: "."
	BasePath string
	// Overwrite replaces a file of the same name. Otherwise the first free
	// " (n)" suffix is used: invoice-123 (1).pdf
	Overwrite bool
	Logger    *zap.Logger
}

// FileSystemStorage writes invoices into one directory. Names that are not
// local to that directory are rejected.
type FileSystemStorage struct {
	base      string
	overwrite bool
	logger    *zap.Logger
}

// NewFileSystemStorage creates the base directory and returns the sink
func NewFileSystemStorage(config *FileSystemStorageConfig) (*FileSystemStorage, error) {
	s := &FileSystemStorage{base: ".", logger: zap.NewNop()}
	if config != nil {
		if config.BasePath != "" {
			s.base = config.BasePath
		}
		if config.Logger != nil {
			s.logger = config.Logger
		}
		s.overwrite = config.Overwrite
	}

	if err := os.MkdirAll(s.base, 0o755); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to create storage directory: "+s.base, err)
	}
	return s, nil
}

// BasePath returns the invoice directory
func (s *FileSystemStorage) BasePath() string {
	return s.base
}

// Save writes doc under the base directory and returns the file path
func (s *FileSystemStorage) Save(ctx context.Context, doc *printing.Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", NewRenderError(ErrCodeStorageFailed, "operation cancelled", err)
	}
	if doc == nil || len(doc.Data) == 0 {
		return "", NewRenderError(ErrCodeStorageFailed, "document is empty", nil)
	}
	name, err := s.localName(doc.Filename)
	if err != nil {
		return "", err
	}

	root, err := os.OpenRoot(s.base)
	if err != nil {
		return "", NewRenderError(ErrCodeStorageFailed, "failed to open storage directory", err)
	}
	defer root.Close()

	f, name, err := s.create(root, name)
	if err != nil {
		return "", NewRenderError(ErrCodeStorageFailed, "failed to create PDF file", err)
	}
	_, werr := f.Write(doc.Data)
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return "", NewRenderError(ErrCodeStorageFailed, "failed to write PDF file", werr)
	}

	path := filepath.Join(s.base, name)
	s.logger.Info("PDF stored", zap.String("path", path), zap.Int64("size", doc.Size()))
	return path, nil
}

// create opens name for writing. Without overwrite it claims the first name
// of the " (n)" sequence that does not exist yet.
func (s *FileSystemStorage) create(root *os.Root, name string) (*os.File, string, error) {
	if s.overwrite {
		f, err := root.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
		return f, name, err
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	candidate := name
	for n := 1; ; n++ {
		f, err := root.OpenFile(candidate, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if !errors.Is(err, fs.ErrExist) {
			return f, candidate, err
		}
		candidate = stem + " (" + strconv.Itoa(n) + ")" + ext
	}
}

// Open returns a reader for a stored document
func (s *FileSystemStorage) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "operation cancelled", err)
	}
	local, err := s.localName(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.base, local))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, NewRenderError(ErrCodeStorageFailed, "PDF not found", err)
	case err != nil:
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to open PDF file", err)
	}
	return f, nil
}

// Delete removes a stored document. A missing file is not an error.
func (s *FileSystemStorage) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return NewRenderError(ErrCodeStorageFailed, "operation cancelled", err)
	}
	local, err := s.localName(name)
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(s.base, local))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return NewRenderError(ErrCodeStorageFailed, "failed to delete PDF file", err)
	}
	s.logger.Info("PDF deleted", zap.String("name", local))
	return nil
}

// localName cleans name and rejects absolute paths and anything that climbs
// out of the base directory. Backslashes count as separators.
func (s *FileSystemStorage) localName(name string) (string, error) {
	if name == "" {
		return "", NewRenderError(ErrCodeStorageFailed, "file name is required", nil)
	}
	slashed := strings.ReplaceAll(name, `\`, "/")
	local := filepath.FromSlash(slashed)
	if strings.HasPrefix(slashed, "/") || !filepath.IsLocal(local) {
		s.logger.Warn("Rejected storage path", zap.String("name", name))
		return "", NewRenderError(ErrCodeStorageFailed, "invalid path", nil)
	}
	return filepath.Clean(local), nil
}

var _ DocumentStorage = (*FileSystemStorage)(nil)
