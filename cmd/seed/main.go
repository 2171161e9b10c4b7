// seed crea el usuario administrador inicial y, con --demo, un juego de datos
// de ejemplo (cliente, proyecto y factura) pasando por los mismos casos de uso
// que la API, de modo que los totales salen del motor de cálculo real.
//
// Uso: go run ./cmd/seed [--demo]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/nqcrm/crm-api/internal/application/billing"
	"github.com/nqcrm/crm-api/internal/application/dto"
	domainbilling "github.com/nqcrm/crm-api/internal/domain/billing"
	"github.com/nqcrm/crm-api/internal/domain/entity"
	"github.com/nqcrm/crm-api/internal/infrastructure/postgres"
	"github.com/nqcrm/crm-api/pkg/config"
	"github.com/nqcrm/crm-api/pkg/logger"
)

const (
	adminEmail    = "admin@nqcrm.com"
	adminName     = "Admin"
	adminPassword = "admin1234" // solo para desarrollo; cambiar tras el primer login
)

func main() {
	demo := flag.Bool("demo", false, "crear además datos de ejemplo")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)

	existing, err := userRepo.GetByEmail(adminEmail)
	if err != nil {
		log.Fatal().Err(err).Msg("consultar admin")
	}
	if existing == nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal().Err(err).Msg("hash de contraseña")
		}
		now := time.Now()
		admin := &entity.User{
			ID:           uuid.New().String(),
			Email:        adminEmail,
			Name:         adminName,
			Role:         entity.RoleAdmin,
			PasswordHash: string(hash),
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := userRepo.Create(admin); err != nil {
			log.Fatal().Err(err).Msg("crear admin")
		}
		log.Info().Str("email", adminEmail).Msg("usuario admin creado")
	} else {
		log.Info().Str("email", adminEmail).Msg("usuario admin ya existe")
	}

	if !*demo {
		return
	}

	clientRepo := postgres.NewClientRepository(pool)
	projectRepo := postgres.NewProjectRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	activityRepo := postgres.NewActivityRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	now := time.Now()
	client := &entity.Client{
		ID:        uuid.New().String(),
		Name:      "Nadia Quessart",
		Email:     "nadia@example.com",
		Company:   "NQ Studio",
		Phone:     "+33 6 12 34 56 78",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := clientRepo.Create(client); err != nil {
		log.Fatal().Err(err).Msg("crear cliente demo")
	}

	deadline := now.AddDate(0, 2, 0)
	project := &entity.Project{
		ID:         uuid.New().String(),
		Title:      "Rediseño web",
		ClientID:   client.ID,
		Status:     entity.ProjectStatusActive,
		Deadline:   &deadline,
		TotalValue: decimal.RequireFromString("4800"),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := projectRepo.Create(project); err != nil {
		log.Fatal().Err(err).Msg("crear proyecto demo")
	}

	invoiceUC := billing.NewInvoiceUseCase(txRunner, invoiceRepo, clientRepo, projectRepo, activityRepo, billing.InvoiceConfig{
		NumberPrefix: cfg.Invoice.NumberPrefix,
		NumberStart:  cfg.Invoice.NumberStart,
		Currency:     cfg.Invoice.Currency,
	})
	inv, err := invoiceUC.Create(ctx, adminName, dto.CreateInvoiceRequest{
		ClientID:  client.ID,
		ProjectID: project.ID,
		TVARate:   decimal.RequireFromString("20"),
		LineItems: []domainbilling.LineItemInput{
			{Description: "Diseño de maquetas", UnitPrice: "850", Quantity: "2"},
			{Description: "Integración front", UnitPrice: "95.50", Quantity: "16"},
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("crear factura demo")
	}
	log.Info().
		Str("number", inv.Number).
		Str("total", inv.Total.String()).
		Msg("factura demo creada")

	// Segunda factura, marcada pagada: deja un pago y actividad en el feed.
	paidInv, err := invoiceUC.Create(ctx, adminName, dto.CreateInvoiceRequest{
		ClientID: client.ID,
		TVARate:  decimal.RequireFromString("5.5"),
		LineItems: []domainbilling.LineItemInput{
			{Description: "Sesión de consultoría", UnitPrice: "120", Quantity: "3"},
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("crear factura demo pagada")
	}
	paid := entity.InvoiceStatusPaid
	if _, err := invoiceUC.Update(ctx, adminName, paidInv.ID, dto.UpdateInvoiceRequest{Status: &paid}); err != nil {
		log.Fatal().Err(err).Msg("marcar factura demo como pagada")
	}
	log.Info().
		Str("number", paidInv.Number).
		Msg("factura demo pagada registrada")
}
