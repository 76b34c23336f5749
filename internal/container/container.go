package container

import (
	"database/sql"

	"armory/internal/assignments"
	auditLogRepo "armory/internal/auditlog"
	"armory/internal/expenditures"
	"armory/internal/movement"
	"armory/internal/purchases"
	"armory/internal/repository"
	"armory/internal/settings"
	"armory/internal/stocks"
	"armory/internal/summary"
	"armory/internal/transfers"
	"armory/internal/users"
	"armory/pkg/auditlog"
	"armory/pkg/security"
)

// Container wires every repository, service and handler once at startup.
type Container struct {
	Repository *repository.Repository
	AuditLog   *auditlog.Auditlog
	RefCache   *settings.RefCache

	LoginHandler       *security.LoginHandler
	AssetHandler       *settings.AssetHandler
	BaseHandler        *settings.BaseHandler
	UserHandler        *users.UsersHandler
	PurchaseHandler    *purchases.PurchaseHandler
	TransferHandler    *transfers.TransferHandler
	AssignmentHandler  *assignments.AssignmentHandler
	ExpenditureHandler *expenditures.ExpenditureHandler
	StockHandler       *stocks.StockHandler
	MovementHandler    *movement.MovementHandler
	SummaryHandler     *summary.SummaryHandler
}

func NewAppContainer(db *sql.DB) *Container {
	repo := repository.NewRepository(db)
	auditStore := auditLogRepo.NewRepository(repo)
	auditLog := auditlog.NewAuditLog(auditStore)

	assetRepo := settings.NewAssetRepository(repo)
	baseRepo := settings.NewBaseRepository(repo)
	refCache := settings.NewRefCache(settings.NewDBLister(assetRepo, baseRepo))

	stockRepo := stocks.NewRepository(repo)

	purchaseRepo := purchases.NewRepository(repo)
	purchaseService := purchases.NewService(repo, purchaseRepo, stockRepo)

	transferRepo := transfers.NewRepository(repo)
	transferService := transfers.NewService(repo, transferRepo, stockRepo)

	assignmentRepo := assignments.NewRepository(repo)
	assignmentService := assignments.NewService(repo, assignmentRepo, stockRepo)

	expenditureRepo := expenditures.NewRepository(repo)
	expenditureService := expenditures.NewService(repo, expenditureRepo, assignmentRepo, stockRepo)

	movementRepo := movement.NewRepository(repo)
	movementCompiler := movement.NewCompiler(movementRepo)

	summaryRepo := summary.NewRepository(repo)

	return &Container{
		Repository: repo,
		AuditLog:   auditLog,
		RefCache:   refCache,

		LoginHandler:       security.NewLoginHandler(repo),
		AssetHandler:       settings.NewAssetHandler(assetRepo, refCache, auditLog),
		BaseHandler:        settings.NewBaseHandler(baseRepo, refCache, auditLog),
		UserHandler:        users.NewHandler(users.NewRepository(repo)),
		PurchaseHandler:    purchases.NewHandler(purchaseRepo, purchaseService, auditLog),
		TransferHandler:    transfers.NewHandler(transferRepo, transferService, auditLog),
		AssignmentHandler:  assignments.NewHandler(assignmentRepo, assignmentService, auditLog),
		ExpenditureHandler: expenditures.NewHandler(expenditureRepo, expenditureService, auditLog),
		StockHandler:       stocks.NewStockHandler(repo, stockRepo, refCache),
		MovementHandler:    movement.NewHandler(movementCompiler),
		SummaryHandler:     summary.NewHandler(summaryRepo, refCache),
	}
}
