// Package archive stores rendered invoice and receipt documents on disk.
package archive

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pigeonworks-llc/bookkeeper/pkg/document"
	"github.com/pigeonworks-llc/bookkeeper/pkg/pathutil"
)

// Repository defines the interface for rendered document storage.
type Repository interface {
	// Path returns where the document of the given kind lives
	Path(kind document.Kind, ref Ref) string

	// Save writes a rendered document and returns its path
	Save(kind document.Kind, ref Ref, data []byte) (string, error)

	// Exists checks if a rendered document exists
	Exists(kind document.Kind, ref Ref) bool

	// Remove deletes every document rendered for an invoice
	Remove(ref Ref) ([]string, error)

	// List returns the file names of all stored documents
	List() ([]string, error)
}

// FileSystemRepository is a file system implementation of Repository.
type FileSystemRepository struct {
	pathResolver *pathutil.PathResolver
}

// NewFileSystemRepository creates a new FileSystemRepository.
func NewFileSystemRepository(pathResolver *pathutil.PathResolver) *FileSystemRepository {
	return &FileSystemRepository{
		pathResolver: pathResolver,
	}
}

// Ref identifies the documents of one invoice. Invoice numbers restart for
// every customer, so the customer is part of the key.
type Ref struct {
	CustomerID int64
	Number     string
}

// FileName returns the document file name, e.g. Invoice_3_0001.pdf or Receipt_3_0001.pdf.
func FileName(kind document.Kind, ref Ref) string {
	prefix := "Invoice"
	if kind == document.KindReceipt {
		prefix = "Receipt"
	}
	return fmt.Sprintf("%s_%d_%s.pdf", prefix, ref.CustomerID, ref.Number)
}

// Path returns the absolute location of a document in the documents directory.
func (r *FileSystemRepository) Path(kind document.Kind, ref Ref) string {
	return filepath.Join(r.pathResolver.GetDocumentsDir(), FileName(kind, ref))
}

// Save writes data to the document path, replacing any previous render.
// It creates the documents directory if it doesn't exist.
func (r *FileSystemRepository) Save(kind document.Kind, ref Ref, data []byte) (string, error) {
	if err := r.pathResolver.EnsureDir(r.pathResolver.GetDocumentsDir()); err != nil {
		return "", fmt.Errorf("failed to ensure documents directory: %w", err)
	}

	path := r.Path(kind, ref)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	return path, nil
}

// Exists checks if a document has been rendered.
func (r *FileSystemRepository) Exists(kind document.Kind, ref Ref) bool {
	return r.pathResolver.FileExists(r.Path(kind, ref))
}

// Remove deletes the invoice and receipt rendered for ref.
// Missing files are skipped. It returns the paths that were removed.
func (r *FileSystemRepository) Remove(ref Ref) ([]string, error) {
	var removed []string
	for _, kind := range []document.Kind{document.KindInvoice, document.KindReceipt} {
		path := r.Path(kind, ref)
		err := os.Remove(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", path, err)
		}
		removed = append(removed, path)
	}
	return removed, nil
}

// List returns the stored document file names in lexical order.
// Returns an empty slice if the documents directory doesn't exist.
func (r *FileSystemRepository) List() ([]string, error) {
	dir := r.pathResolver.GetDocumentsDir()
	if !r.pathResolver.FileExists(dir) {
		return []string{}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read documents directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if filepath.Ext(name) != ".pdf" {
			continue
		}
		if strings.HasPrefix(name, "Invoice_") || strings.HasPrefix(name, "Receipt_") {
			names = append(names, name)
		}
	}

	sort.Strings(names)
	return names, nil
}
