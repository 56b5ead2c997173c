// Package pathutil provides centralized path management for the database and rendered documents.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// PathResolver manages paths for the database, rendered documents and the logo.
type PathResolver struct {
	root         string
	databasePath string
	documentsDir string
	logoPath     string
}

// Config represents the configuration for PathResolver.
type Config struct {
	// Root is the data directory (e.g., ~/bookkeeping)
	Root string
	// DatabasePath is the path to the SQLite database file
	DatabasePath string
	// DocumentsDir is the directory for rendered invoices and receipts
	DocumentsDir string
	// LogoPath is the header logo image
	LogoPath string
}

// New creates a new PathResolver with the given configuration.
// If DatabasePath is empty, it defaults to {Root}/finance.db
// If DocumentsDir is empty, it defaults to {Root}/invoices
// If LogoPath is empty, it defaults to {Root}/logo.png
func New(config Config) *PathResolver {
	root := config.Root
	if root == "" {
		root = "."
	}

	dbPath := config.DatabasePath
	if dbPath == "" {
		dbPath = filepath.Join(root, "finance.db")
	}

	documentsDir := config.DocumentsDir
	if documentsDir == "" {
		documentsDir = filepath.Join(root, "invoices")
	}

	logoPath := config.LogoPath
	if logoPath == "" {
		logoPath = filepath.Join(root, "logo.png")
	}

	return &PathResolver{
		root:         root,
		databasePath: dbPath,
		documentsDir: documentsDir,
		logoPath:     logoPath,
	}
}

// GetRoot returns the data root directory.
func (p *PathResolver) GetRoot() string {
	return p.root
}

// GetDatabasePath returns the database file path.
func (p *PathResolver) GetDatabasePath() string {
	return p.databasePath
}

// GetDocumentsDir returns the rendered documents directory.
func (p *PathResolver) GetDocumentsDir() string {
	return p.documentsDir
}

// GetLogoPath returns the logo image path.
func (p *PathResolver) GetLogoPath() string {
	return p.logoPath
}

// EnsureDir creates a directory if it doesn't exist.
// It creates all parent directories as needed (like mkdir -p).
func (p *PathResolver) EnsureDir(dirPath string) error {
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dirPath, err)
	}
	return nil
}

// FileExists checks if a file exists.
func (p *PathResolver) FileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return err == nil
}
