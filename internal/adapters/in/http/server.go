// Package http exposes the shipping workflows over a thin echo admin API.
// Handlers only translate between HTTP and the application layer; every
// business rule lives in the command and query handlers.
package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"shipping/internal/core/application/usecases/commands"
	"shipping/internal/core/application/usecases/queries"
	"shipping/internal/core/domain/model/customs"
	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/order"
	"shipping/internal/core/ports"
	"shipping/internal/pkg/errs"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	generateLabelHandler   commands.GenerateLabelCommandHandler
	voidShipmentHandler    commands.VoidShipmentCommandHandler
	submitCustomsHandler   commands.SubmitCustomsCommandHandler
	scheduleCustomsHandler commands.ScheduleCustomsCommandHandler

	// Query handlers
	planPackagesHandler    queries.PlanPackagesQueryHandler
	simulateRateHandler    queries.SimulateRateQueryHandler
	validateAddressHandler queries.ValidateAddressQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	generateLabelHandler commands.GenerateLabelCommandHandler,
	voidShipmentHandler commands.VoidShipmentCommandHandler,
	submitCustomsHandler commands.SubmitCustomsCommandHandler,
	scheduleCustomsHandler commands.ScheduleCustomsCommandHandler,
	planPackagesHandler queries.PlanPackagesQueryHandler,
	simulateRateHandler queries.SimulateRateQueryHandler,
	validateAddressHandler queries.ValidateAddressQueryHandler,
) *Server {
	return &Server{
		generateLabelHandler:   generateLabelHandler,
		voidShipmentHandler:    voidShipmentHandler,
		submitCustomsHandler:   submitCustomsHandler,
		scheduleCustomsHandler: scheduleCustomsHandler,
		planPackagesHandler:    planPackagesHandler,
		simulateRateHandler:    simulateRateHandler,
		validateAddressHandler: validateAddressHandler,
	}
}

// RegisterRoutes mounts the API on the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.GET("/orders/:id/packages", s.PlanPackages)
	api.POST("/orders/:id/rate-simulation", s.SimulateRate)
	api.POST("/orders/:id/labels", s.GenerateLabel)
	api.POST("/orders/:id/void", s.VoidShipment)
	api.POST("/orders/:id/customs-submission", s.SubmitCustoms)
	api.POST("/orders/:id/customs-schedule", s.ScheduleCustoms)
	api.POST("/address-validation", s.ValidateAddress)
}

// ErrorResponse is the JSON body returned for every failed request.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func errorJSON(ctx echo.Context, status int, err error) error {
	return ctx.JSON(status, ErrorResponse{Code: status, Message: err.Error()})
}

// writeError maps application errors to HTTP status codes: missing aggregate
// to 404, invalid input to 400, workflow-state conflicts to 409, carrier
// failures to 502, everything else to 500.
func writeError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return errorJSON(ctx, http.StatusNotFound, err)
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return errorJSON(ctx, http.StatusBadRequest, err)
	case errors.Is(err, order.ErrShipmentAlreadyAttached),
		errors.Is(err, order.ErrNoShipmentAttached),
		errors.Is(err, commands.ErrCustomsNotTriggered),
		errors.Is(err, commands.ErrCustomsNotPending),
		errors.Is(err, commands.ErrNothingToVoid),
		errors.Is(err, customs.ErrSubmissionIsVoided):
		return errorJSON(ctx, http.StatusConflict, err)
	case errors.Is(err, ports.ErrNoRateFromProvider):
		return errorJSON(ctx, http.StatusUnprocessableEntity, err)
	case errors.Is(err, errs.ErrProviderFailure),
		errors.Is(err, errs.ErrConfigIsInvalid):
		return errorJSON(ctx, http.StatusBadGateway, err)
	default:
		return errorJSON(ctx, http.StatusInternalServerError, err)
	}
}

func orderIDParam(ctx echo.Context) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("order id", err)
	}
	return id, nil
}

// PackageResponse is one planned package.
type PackageResponse struct {
	Name          string  `json:"name"`
	LengthCm      float64 `json:"length_cm"`
	WidthCm       float64 `json:"width_cm"`
	HeightCm      float64 `json:"height_cm"`
	WeightKg      float64 `json:"weight_kg"`
	Reference     string  `json:"reference"`
	DimensionUnit string  `json:"dimension_unit"`
	WeightUnit    string  `json:"weight_unit"`
	PackagingType string  `json:"packaging_type"`
}

// PlanPackages handles GET /api/v1/orders/:id/packages - previews the
// package plan without touching the carrier.
func (s *Server) PlanPackages(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewPlanPackagesQuery(orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	plan, err := s.planPackagesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]PackageResponse, len(plan.Packages))
	for i, pkg := range plan.Packages {
		response[i] = PackageResponse{
			Name:          pkg.Name,
			LengthCm:      pkg.LengthCm,
			WidthCm:       pkg.WidthCm,
			HeightCm:      pkg.HeightCm,
			WeightKg:      pkg.WeightKg,
			Reference:     pkg.Reference,
			DimensionUnit: pkg.DimensionUnit,
			WeightUnit:    pkg.WeightUnit,
			PackagingType: pkg.PackagingType,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// RateResponse is the quote returned by a rate simulation.
type RateResponse struct {
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	BilledWeightKg float64 `json:"billed_weight_kg"`
	Negotiated     bool    `json:"negotiated"`
}

// SimulateRate handles POST /api/v1/orders/:id/rate-simulation - prices the
// order's package plan with the carrier.
func (s *Server) SimulateRate(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewSimulateRateQuery(orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	quote, err := s.simulateRateHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, RateResponse{
		Amount:         quote.Cost().Amount(),
		Currency:       quote.Cost().Currency(),
		BilledWeightKg: quote.BilledWeightKg(),
		Negotiated:     quote.Negotiated(),
	})
}

// GenerateLabel handles POST /api/v1/orders/:id/labels - buys labels for
// every planned package and stores the shipment record.
func (s *Server) GenerateLabel(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewGenerateLabelCommand(orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.generateLabelHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusCreated)
}

// VoidRequest optionally narrows a void to specific shipment identifiers.
// An empty body voids everything recorded on the order.
type VoidRequest struct {
	Identifiers []string `json:"identifiers"`
}

// VoidOutcomeResponse is the carrier's verdict for one identifier.
type VoidOutcomeResponse struct {
	Identifier string `json:"identifier"`
	Outcome    string `json:"outcome"`
	Reason     string `json:"reason,omitempty"`
}

// VoidShipment handles POST /api/v1/orders/:id/void - voids the order's
// shipments and reconciles the stored shipment data.
func (s *Server) VoidShipment(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	var request VoidRequest
	if err = ctx.Bind(&request); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, errs.NewValueIsInvalidError("request body"))
	}

	cmd, err := commands.NewVoidShipmentCommand(orderID, request.Identifiers)
	if err != nil {
		return writeError(ctx, err)
	}

	result, err := s.voidShipmentHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	outcomes := result.Outcomes()
	response := make([]VoidOutcomeResponse, len(outcomes))
	for i, outcome := range outcomes {
		response[i] = VoidOutcomeResponse{
			Identifier: outcome.Identifier,
			Outcome:    outcome.Outcome.String(),
			Reason:     outcome.Reason,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// SubmitCustoms handles POST /api/v1/orders/:id/customs-submission - runs a
// customs submission attempt immediately, outside the retry schedule.
func (s *Server) SubmitCustoms(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewSubmitCustomsCommand(orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.submitCustomsHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusAccepted)
}

// ScheduleCustoms handles POST /api/v1/orders/:id/customs-schedule -
// re-triggers the customs workflow for the order.
func (s *Server) ScheduleCustoms(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewScheduleCustomsCommand(orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.scheduleCustomsHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusAccepted)
}

// AddressValidationRequest is a destination to check with the carrier.
type AddressValidationRequest struct {
	Name         string `json:"name"`
	AttentionTo  string `json:"attention_to"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	CountryCode  string `json:"country_code"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
}

// AddressValidationResponse is the carrier's verdict on the address.
type AddressValidationResponse struct {
	Valid      bool     `json:"valid"`
	Ambiguous  bool     `json:"ambiguous"`
	Candidates []string `json:"candidates,omitempty"`
}

// ValidateAddress handles POST /api/v1/address-validation - checks an
// address against the carrier's validation service.
func (s *Server) ValidateAddress(ctx echo.Context) error {
	var request AddressValidationRequest
	if err := ctx.Bind(&request); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, errs.NewValueIsInvalidError("request body"))
	}

	address, err := kernel.NewAddress(
		request.Name, request.AttentionTo,
		request.AddressLine1, request.AddressLine2,
		request.City, request.State, request.PostalCode, request.CountryCode,
		request.Phone, request.Email,
	)
	if err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewValidateAddressQuery(address)
	if err != nil {
		return writeError(ctx, err)
	}

	result, err := s.validateAddressHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, AddressValidationResponse{
		Valid:      result.Valid,
		Ambiguous:  result.Ambiguous,
		Candidates: result.Candidates,
	})
}
