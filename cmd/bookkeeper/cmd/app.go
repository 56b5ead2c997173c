package cmd

import (
	"go.uber.org/zap"

	"github.com/pigeonworks-llc/bookkeeper/pkg/archive"
	"github.com/pigeonworks-llc/bookkeeper/pkg/billing"
	"github.com/pigeonworks-llc/bookkeeper/pkg/db"
	"github.com/pigeonworks-llc/bookkeeper/pkg/document"
	"github.com/pigeonworks-llc/bookkeeper/pkg/pathutil"
	"github.com/pigeonworks-llc/bookkeeper/pkg/profile"
)

// app bundles what every command needs once configuration is loaded.
type app struct {
	paths    *pathutil.PathResolver
	conn     *db.Connection
	composer *document.Composer
	archive  *archive.FileSystemRepository
	service  *billing.Service
}

func openApp() *app {
	if err := cfg.Validate("storage.root", "document.profile"); err != nil {
		exitOnError(err, "invalid configuration")
	}

	paths := pathutil.New(pathutil.Config{
		Root:         cfg.Storage.Root,
		DatabasePath: cfg.Storage.DBPath,
		DocumentsDir: cfg.Storage.DocumentsDir,
		LogoPath:     cfg.Document.LogoPath,
	})

	dbPath := paths.GetDatabasePath()
	log.Debug("Opening database", zap.String("path", dbPath))

	conn, err := db.Open(dbPath)
	exitOnError(err, "failed to open database")

	presets, err := profile.Load(cfg.Document.ProfilesPath)
	exitOnError(err, "failed to load sender profiles")

	name := cfg.Document.Profile
	if profileName != "" {
		name = profileName
	}
	sender, err := presets.Lookup(name)
	exitOnError(err, "failed to select sender profile")

	includeLogo := !noLogo
	if includeLogo && !paths.FileExists(paths.GetLogoPath()) {
		log.Debug("No logo found, rendering without it", zap.String("path", paths.GetLogoPath()))
		includeLogo = false
	}

	composer := document.NewComposer(
		document.WithLogger(log.Named("document")),
		document.WithLogoPath(paths.GetLogoPath()),
	)
	repo := archive.NewFileSystemRepository(paths)

	service := billing.NewService(conn, composer, repo,
		billing.WithSender(sender),
		billing.WithAccentColor(cfg.Document.AccentColor),
		billing.WithLogo(includeLogo),
		billing.WithLogger(log.Named("billing")),
	)

	return &app{
		paths:    paths,
		conn:     conn,
		composer: composer,
		archive:  repo,
		service:  service,
	}
}

func (a *app) Close() {
	if err := a.conn.Close(); err != nil {
		log.Warn("Failed to close database", zap.Error(err))
	}
}
