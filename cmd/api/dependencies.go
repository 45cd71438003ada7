package api

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/FACorreiaa/farmstay-api/internal/domain/admin"
	"github.com/FACorreiaa/farmstay-api/internal/domain/catalog"
	"github.com/FACorreiaa/farmstay-api/internal/domain/contact"
	"github.com/FACorreiaa/farmstay-api/internal/domain/inquiry"
	"github.com/FACorreiaa/farmstay-api/internal/domain/listing"
	"github.com/FACorreiaa/farmstay-api/internal/domain/review"
	"github.com/FACorreiaa/farmstay-api/internal/domain/seller"
	"github.com/FACorreiaa/farmstay-api/internal/domain/settings"
	"github.com/FACorreiaa/farmstay-api/internal/domain/tags"
	"github.com/FACorreiaa/farmstay-api/pkg/config"
	"github.com/FACorreiaa/farmstay-api/pkg/db"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	DB     *db.DB
	Logger *slog.Logger

	// Repositories
	CatalogRepo  catalog.Repository
	ContactRepo  contact.Repository
	TagRepo      tags.Repository
	ReviewRepo   review.Repository
	InquiryRepo  inquiry.Repository
	SettingsRepo settings.Repository

	// Services
	ListingService  *listing.ServiceImpl
	ContactService  *contact.ServiceImpl
	TagService      *tags.ServiceImpl
	ReviewService   *review.ServiceImpl
	InquiryService  *inquiry.ServiceImpl
	SettingsService *settings.ServiceImpl
	SellerService   *seller.ServiceImpl
	AdminService    *admin.ServiceImpl

	// Handlers
	ListingHandler  *listing.HandlerImpl
	ContactHandler  *contact.HandlerImpl
	TagHandler      *tags.HandlerImpl
	ReviewHandler   *review.HandlerImpl
	InquiryHandler  *inquiry.HandlerImpl
	SettingsHandler *settings.HandlerImpl
	SellerHandler   *seller.HandlerImpl
	AdminHandler    *admin.HandlerImpl
}

// InitDependencies initializes all application dependencies
func InitDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to init database: %w", err)
	}

	deps.initRepositories()

	if err := deps.initServices(); err != nil {
		return nil, fmt.Errorf("failed to init services: %w", err)
	}

	deps.initHandlers()

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// OpenDatabase connects using the database section of cfg.
func OpenDatabase(cfg *config.Config, logger *slog.Logger) (*db.DB, error) {
	return db.New(db.Config{
		DSN:             cfg.Database.DSN(),
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
	}, logger)
}

// initDatabase initializes the database connection and runs migrations
func (d *Dependencies) initDatabase() error {
	database, err := OpenDatabase(d.Config, d.Logger)
	if err != nil {
		return err
	}
	d.DB = database

	if err := d.DB.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	d.Logger.Info("database connected and migrations completed successfully")
	return nil
}

// initRepositories initializes all repository layer dependencies
func (d *Dependencies) initRepositories() {
	pool := d.DB.Pool
	d.CatalogRepo = catalog.NewRepositoryImpl(pool, d.Logger)
	d.ContactRepo = contact.NewRepositoryImpl(pool, d.Logger)
	d.TagRepo = tags.NewRepositoryImpl(pool, d.Logger)
	d.ReviewRepo = review.NewRepositoryImpl(pool, d.Logger)
	d.InquiryRepo = inquiry.NewRepositoryImpl(pool, d.Logger)
	d.SettingsRepo = settings.NewRepositoryImpl(pool, d.Logger)

	d.Logger.Info("repositories initialized")
}

func (d *Dependencies) catalogSource() (catalog.Source, error) {
	switch d.Config.Catalog.Source {
	case config.CatalogSourceStatic:
		return catalog.StaticSource{}, nil
	case config.CatalogSourcePostgres:
		return catalog.NewRepositorySource(d.CatalogRepo, d.Logger), nil
	default:
		return nil, fmt.Errorf("unknown catalog source %q", d.Config.Catalog.Source)
	}
}

// initServices initializes all service layer dependencies
func (d *Dependencies) initServices() error {
	source, err := d.catalogSource()
	if err != nil {
		return err
	}
	d.ListingService = listing.NewService(source, d.Config.Catalog.CacheTTL, d.Logger)

	d.ContactService = contact.NewService(d.ContactRepo, d.CatalogRepo, d.ListingService, d.Logger)
	d.TagService = tags.NewService(d.TagRepo, d.CatalogRepo, d.ListingService, d.Logger)
	d.ReviewService = review.NewService(d.ReviewRepo, d.CatalogRepo, d.ListingService, d.Logger)
	d.InquiryService = inquiry.NewService(d.InquiryRepo, d.CatalogRepo, d.Logger)
	d.SettingsService = settings.NewService(d.SettingsRepo, d.Logger)

	d.SellerService = seller.NewService(d.CatalogRepo, d.ContactService, d.TagService, d.InquiryService,
		d.ReviewService, d.Config.Server.PublicBaseURL, d.Logger)
	d.AdminService = admin.NewService(d.ContactService, d.TagService, d.ReviewService, d.SettingsService, d.Logger)

	d.Logger.Info("services initialized", slog.String("catalog_source", d.Config.Catalog.Source))
	return nil
}

// initHandlers initializes all handler dependencies
func (d *Dependencies) initHandlers() {
	secure := strings.HasPrefix(d.Config.Server.PublicBaseURL, "https://")
	sessions := listing.NewSessionStore([]byte(d.Config.Auth.SessionKey), secure)

	d.ListingHandler = listing.NewHandlerImpl(d.ListingService, sessions, d.Logger)
	d.ContactHandler = contact.NewHandlerImpl(d.ContactService, d.Logger)
	d.TagHandler = tags.NewHandlerImpl(d.TagService, d.Logger)
	d.ReviewHandler = review.NewHandlerImpl(d.ReviewService, d.Logger)
	d.InquiryHandler = inquiry.NewHandlerImpl(d.InquiryService, d.Logger)
	d.SettingsHandler = settings.NewHandlerImpl(d.SettingsService, d.Logger)
	d.SellerHandler = seller.NewHandlerImpl(d.SellerService, d.Logger)
	d.AdminHandler = admin.NewHandlerImpl(d.AdminService, d.Logger)

	d.Logger.Info("handlers initialized")
}

// Cleanup closes all resources
func (d *Dependencies) Cleanup() {
	if d.DB != nil {
		d.DB.Close()
	}
	d.Logger.Info("cleanup completed")
}
