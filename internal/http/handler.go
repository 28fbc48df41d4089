package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/nurpe/estate-accounting/internal/http/middleware"
	"github.com/nurpe/estate-accounting/internal/model"
	"github.com/nurpe/estate-accounting/internal/service"
)

type Handler struct {
	apartments *service.ApartmentService
	customers  *service.CustomerService
	agents     *service.AgentService
	contracts  *service.ContractService
	payments   *service.PaymentService
	dashboard  *service.DashboardService
	log        zerolog.Logger
}

func NewHandler(
	apartments *service.ApartmentService,
	customers *service.CustomerService,
	agents *service.AgentService,
	contracts *service.ContractService,
	payments *service.PaymentService,
	dashboard *service.DashboardService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		apartments: apartments,
		customers:  customers,
		agents:     agents,
		contracts:  contracts,
		payments:   payments,
		dashboard:  dashboard,
		log:        log,
	}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(authMiddleware)

	protected.POST("/apartments", h.createApartment)
	protected.GET("/apartments", h.listApartments)
	protected.GET("/apartments/available", h.listAvailableApartments)
	protected.GET("/apartments/block/:block", h.listApartmentsByBlock)
	protected.GET("/apartments/:id", h.getApartment)
	protected.PUT("/apartments/:id", h.updateApartment)
	protected.DELETE("/apartments/:id", h.deleteApartment)

	protected.POST("/customers", h.createCustomer)
	protected.GET("/customers", h.listCustomers)
	protected.GET("/customers/:id", h.getCustomer)
	protected.PUT("/customers/:id", h.updateCustomer)
	protected.DELETE("/customers/:id", h.deleteCustomer)

	protected.POST("/agents", h.createAgent)
	protected.GET("/agents", h.listAgents)
	protected.GET("/agents/top", h.topAgents)
	protected.GET("/agents/:id", h.getAgent)
	protected.PUT("/agents/:id", h.updateAgent)
	protected.DELETE("/agents/:id", h.deleteAgent)

	protected.POST("/contracts", h.createContract)
	protected.GET("/contracts", h.listContracts)
	protected.GET("/contracts/overdue", h.listOverdueContracts)
	protected.GET("/contracts/customer/:id", h.listContractsByCustomer)
	protected.GET("/contracts/agent/:id", h.listContractsByAgent)
	protected.GET("/contracts/:id", h.getContract)
	protected.GET("/contracts/:id/details", h.getContractDetails)
	protected.GET("/contracts/:id/pdf", h.exportContractPDF)
	protected.PUT("/contracts/:id", h.updateContract)
	protected.DELETE("/contracts/:id", h.deleteContract)

	protected.POST("/payments", h.createPayment)
	protected.GET("/payments/report", h.paymentRegister)
	protected.GET("/payments/report/export", h.exportPaymentRegister)
	protected.GET("/payments/contract/:id", h.listPaymentsByContract)
	protected.GET("/payments/:id", h.getPayment)
	protected.DELETE("/payments/:id", h.deletePayment)

	protected.GET("/dashboard", h.getDashboard)
}

// contractView is the read-side projection of a contract aggregate. The
// balance and schedule counters are recomputed from the loaded children
// on every read rather than trusting anything stored.
type contractView struct {
	model.Contract
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	MonthsPaid       int             `json:"months_paid"`
	MonthsRemaining  int             `json:"months_remaining"`
}

func newContractView(contract model.Contract) contractView {
	return contractView{
		Contract:         contract,
		RemainingBalance: contract.RemainingBalance(),
		MonthsPaid:       contract.MonthsPaid(),
		MonthsRemaining:  contract.MonthsRemaining(),
	}
}

func newContractViews(contracts []model.Contract) []contractView {
	views := make([]contractView, 0, len(contracts))
	for _, contract := range contracts {
		views = append(views, newContractView(contract))
	}
	return views
}

type apartmentRequest struct {
	ApartmentNumber     string          `json:"apartment_number" binding:"required"`
	Block               string          `json:"block" binding:"required"`
	Entrance            int             `json:"entrance" binding:"required"`
	Floor               int             `json:"floor" binding:"required"`
	RoomCount           int             `json:"room_count" binding:"required"`
	Area                decimal.Decimal `json:"area" binding:"required"`
	PricePerSquareMeter decimal.Decimal `json:"price_per_square_meter" binding:"required"`
}

func (r apartmentRequest) input() service.ApartmentInput {
	return service.ApartmentInput{
		ApartmentNumber:     strings.TrimSpace(r.ApartmentNumber),
		Block:               strings.TrimSpace(r.Block),
		Entrance:            r.Entrance,
		Floor:               r.Floor,
		RoomCount:           r.RoomCount,
		Area:                r.Area,
		PricePerSquareMeter: r.PricePerSquareMeter,
	}
}

func (h *Handler) createApartment(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req apartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	apartment, err := h.apartments.Create(c.Request.Context(), principal, req.input())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, apartment)
}

func (h *Handler) listApartments(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	apartments, err := h.apartments.List(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, apartments)
}

func (h *Handler) listAvailableApartments(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	apartments, err := h.apartments.ListAvailable(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, apartments)
}

func (h *Handler) listApartmentsByBlock(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	apartments, err := h.apartments.ListByBlock(c.Request.Context(), principal, c.Param("block"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, apartments)
}

func (h *Handler) getApartment(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	apartment, err := h.apartments.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, apartment)
}

func (h *Handler) updateApartment(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req apartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	apartment, err := h.apartments.Update(c.Request.Context(), principal, id, req.input())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, apartment)
}

func (h *Handler) deleteApartment(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.apartments.Delete(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type customerRequest struct {
	FullName            string `json:"full_name" binding:"required"`
	PassportSeries      string `json:"passport_series" binding:"required"`
	PassportNumber      string `json:"passport_number" binding:"required"`
	PassportIssueDate   string `json:"passport_issue_date"`
	PassportIssuedBy    string `json:"passport_issued_by"`
	RegistrationAddress string `json:"registration_address"`
	PhoneNumber         string `json:"phone_number"`
	Email               string `json:"email"`
}

func (r customerRequest) input() service.CustomerInput {
	return service.CustomerInput{
		FullName:            strings.TrimSpace(r.FullName),
		PassportSeries:      strings.TrimSpace(r.PassportSeries),
		PassportNumber:      strings.TrimSpace(r.PassportNumber),
		PassportIssueDate:   strings.TrimSpace(r.PassportIssueDate),
		PassportIssuedBy:    strings.TrimSpace(r.PassportIssuedBy),
		RegistrationAddress: strings.TrimSpace(r.RegistrationAddress),
		PhoneNumber:         strings.TrimSpace(r.PhoneNumber),
		Email:               strings.TrimSpace(r.Email),
	}
}

func (h *Handler) createCustomer(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer, err := h.customers.Create(c.Request.Context(), principal, req.input())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *Handler) listCustomers(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	customers, err := h.customers.List(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (h *Handler) getCustomer(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	customer, err := h.customers.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *Handler) updateCustomer(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer, err := h.customers.Update(c.Request.Context(), principal, id, req.input())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *Handler) deleteCustomer(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.customers.Delete(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type agentRequest struct {
	FullName             string          `json:"full_name" binding:"required"`
	PhoneNumber          string          `json:"phone_number"`
	Email                string          `json:"email"`
	CommissionPercentage decimal.Decimal `json:"commission_percentage"`
}

func (r agentRequest) input() service.AgentInput {
	return service.AgentInput{
		FullName:             strings.TrimSpace(r.FullName),
		PhoneNumber:          strings.TrimSpace(r.PhoneNumber),
		Email:                strings.TrimSpace(r.Email),
		CommissionPercentage: r.CommissionPercentage,
	}
}

func (h *Handler) createAgent(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req agentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	agent, err := h.agents.Create(c.Request.Context(), principal, req.input())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, agent)
}

func (h *Handler) listAgents(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	agents, err := h.agents.List(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, agents)
}

func (h *Handler) topAgents(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	agents, err := h.agents.TopPerformers(c.Request.Context(), principal, 0)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, agents)
}

func (h *Handler) getAgent(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	agent, err := h.agents.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, agent)
}

func (h *Handler) updateAgent(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req agentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	agent, err := h.agents.Update(c.Request.Context(), principal, id, req.input())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, agent)
}

func (h *Handler) deleteAgent(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.agents.Delete(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type createContractRequest struct {
	CustomerID     string          `json:"customer_id" binding:"required"`
	ApartmentID    string          `json:"apartment_id" binding:"required"`
	AgentID        string          `json:"agent_id" binding:"required"`
	ContractNumber string          `json:"contract_number"`
	ContractDate   string          `json:"contract_date" binding:"required"`
	DownPayment    decimal.Decimal `json:"down_payment"`
	DurationMonths int             `json:"duration_months" binding:"required"`
}

func (h *Handler) createContract(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req createContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customerID, err := uuid.Parse(strings.TrimSpace(req.CustomerID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer_id"})
		return
	}
	apartmentID, err := uuid.Parse(strings.TrimSpace(req.ApartmentID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid apartment_id"})
		return
	}
	agentID, err := uuid.Parse(strings.TrimSpace(req.AgentID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid agent_id"})
		return
	}
	contractDate, err := parseDate(req.ContractDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract_date"})
		return
	}

	contract, err := h.contracts.Create(c.Request.Context(), principal, service.CreateContractInput{
		CustomerID:     customerID,
		ApartmentID:    apartmentID,
		AgentID:        agentID,
		ContractNumber: strings.TrimSpace(req.ContractNumber),
		ContractDate:   contractDate,
		DownPayment:    req.DownPayment,
		DurationMonths: req.DurationMonths,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newContractView(*contract))
}

func (h *Handler) listContracts(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	contracts, err := h.contracts.List(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, newContractViews(contracts))
}

func (h *Handler) listOverdueContracts(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	contracts, err := h.contracts.ListOverdue(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, newContractViews(contracts))
}

func (h *Handler) listContractsByCustomer(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	customerID, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	contracts, err := h.contracts.ListByCustomer(c.Request.Context(), principal, customerID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, newContractViews(contracts))
}

func (h *Handler) listContractsByAgent(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	agentID, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	contracts, err := h.contracts.ListByAgent(c.Request.Context(), principal, agentID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, newContractViews(contracts))
}

func (h *Handler) getContract(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	contract, err := h.contracts.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	view := newContractView(*contract)
	view.InstallmentPlans = nil
	view.Payments = nil
	c.JSON(http.StatusOK, view)
}

func (h *Handler) getContractDetails(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	contract, err := h.contracts.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, newContractView(*contract))
}

func (h *Handler) exportContractPDF(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	fileName, content, err := h.contracts.RenderPDF(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+fileName+"\"")
	c.Data(http.StatusOK, "application/pdf", content)
}

type updateContractRequest struct {
	ContractDate   string          `json:"contract_date"`
	DurationMonths int             `json:"duration_months" binding:"required"`
	DownPayment    decimal.Decimal `json:"down_payment"`
	Status         string          `json:"status"`
}

func (h *Handler) updateContract(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req updateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := service.UpdateContractInput{
		DurationMonths: req.DurationMonths,
		DownPayment:    req.DownPayment,
	}
	if req.ContractDate != "" {
		input.ContractDate, err = parseDate(req.ContractDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract_date"})
			return
		}
	}
	if req.Status != "" {
		status, err := parseContractStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		input.Status = status
	}

	contract, err := h.contracts.Update(c.Request.Context(), principal, id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, newContractView(*contract))
}

func (h *Handler) deleteContract(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.contracts.Delete(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type createPaymentRequest struct {
	ContractID        string          `json:"contract_id" binding:"required"`
	Amount            decimal.Decimal `json:"amount" binding:"required"`
	PaymentDate       string          `json:"payment_date"`
	PaymentType       string          `json:"payment_type" binding:"required"`
	InstallmentPlanID string          `json:"installment_plan_id"`
	ReceiptNumber     string          `json:"receipt_number"`
	Notes             string          `json:"notes"`
}

func (h *Handler) createPayment(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contractID, err := uuid.Parse(strings.TrimSpace(req.ContractID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract_id"})
		return
	}
	paymentType, err := parsePaymentType(req.PaymentType)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment_type"})
		return
	}

	input := service.CreatePaymentInput{
		ContractID:    contractID,
		Amount:        req.Amount,
		PaymentType:   paymentType,
		ReceiptNumber: strings.TrimSpace(req.ReceiptNumber),
		Notes:         strings.TrimSpace(req.Notes),
	}
	if req.PaymentDate != "" {
		input.PaymentDate, err = parseDate(req.PaymentDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment_date"})
			return
		}
	}
	if req.InstallmentPlanID != "" {
		planID, err := uuid.Parse(strings.TrimSpace(req.InstallmentPlanID))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid installment_plan_id"})
			return
		}
		input.InstallmentPlanID = &planID
	}

	payment, err := h.payments.Create(c.Request.Context(), principal, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

func (h *Handler) getPayment(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	payment, err := h.payments.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

func (h *Handler) listPaymentsByContract(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	contractID, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	payments, err := h.payments.ListByContract(c.Request.Context(), principal, contractID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

func (h *Handler) deletePayment(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.payments.Delete(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) paymentRegister(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	from, err := parseDate(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
		return
	}
	to, err := parseDate(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
		return
	}

	register, err := h.payments.Register(c.Request.Context(), principal, from, to)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, register)
}

func (h *Handler) exportPaymentRegister(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	from, err := parseDate(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
		return
	}
	to, err := parseDate(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
		return
	}

	fileName, content, err := h.payments.ExportRegister(c.Request.Context(), principal, from, to)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+fileName+"\"")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
}

func (h *Handler) getDashboard(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	dashboard, err := h.dashboard.Get(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseID(c *gin.Context) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(c.Param("id")))
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, service.ErrInvalidInput
}

func parsePaymentType(raw string) (model.PaymentType, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "CASH":
		return model.PaymentTypeCash, nil
	case "NONCASH", "NON_CASH", "NON-CASH":
		return model.PaymentTypeNonCash, nil
	default:
		return "", service.ErrInvalidInput
	}
}

func parseContractStatus(raw string) (model.ContractStatus, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "ACTIVE":
		return model.ContractStatusActive, nil
	case "COMPLETED":
		return model.ContractStatusCompleted, nil
	case "OVERDUE":
		return model.ContractStatusOverdue, nil
	case "CANCELLED":
		return model.ContractStatusCancelled, nil
	default:
		return "", service.ErrInvalidInput
	}
}
