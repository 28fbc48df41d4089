package main

import (
	"fmt"
	"os"

	"github.com/nurpe/estate-accounting/internal/auth"
	"github.com/nurpe/estate-accounting/internal/config"
	"github.com/nurpe/estate-accounting/internal/db"
	"github.com/nurpe/estate-accounting/internal/excel"
	httphandler "github.com/nurpe/estate-accounting/internal/http"
	"github.com/nurpe/estate-accounting/internal/http/middleware"
	"github.com/nurpe/estate-accounting/internal/logger"
	"github.com/nurpe/estate-accounting/internal/pdf"
	"github.com/nurpe/estate-accounting/internal/repository"
	"github.com/nurpe/estate-accounting/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	pdfGenerator, err := pdf.NewGenerator(cfg.PDF.FontPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init pdf generator")
	}
	excelGenerator := excel.NewGenerator()

	apartmentRepo := repository.NewApartmentRepository(database)
	customerRepo := repository.NewCustomerRepository(database)
	agentRepo := repository.NewAgentRepository(database)
	contractRepo := repository.NewContractRepository(database)
	paymentRepo := repository.NewPaymentRepository(database)

	apartmentService := service.NewApartmentService(apartmentRepo)
	customerService := service.NewCustomerService(customerRepo)
	agentService := service.NewAgentService(agentRepo)
	contractService := service.NewContractService(database, pdfGenerator)
	paymentService := service.NewPaymentService(database, excelGenerator)
	dashboardService := service.NewDashboardService(
		apartmentRepo, contractRepo, paymentRepo, agentRepo, cfg.Dashboard.TrendMonths)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(
		apartmentService, customerService, agentService,
		contractService, paymentService, dashboardService, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment, cfg.HTTP.AllowedOrigins)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting estate accounting service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
