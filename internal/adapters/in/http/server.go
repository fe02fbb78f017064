package http

import (
	"errors"
	"net/http"
	"time"

	"codorders/internal/core/application/usecases/commands"
	"codorders/internal/core/application/usecases/queries"
	"codorders/internal/core/domain/model/kernel"
	"codorders/internal/core/domain/model/order"
	"codorders/internal/core/domain/services"
	"codorders/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server exposes the order lifecycle over HTTP. It coordinates between
// HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	changeStatusHandler    commands.ChangeOrderStatusCommandHandler
	confirmOrderHandler    commands.ConfirmOrderCommandHandler
	editOrderHandler       commands.EditOrderCommandHandler
	deleteOrderHandler     commands.DeleteOrderCommandHandler
	confirmDeliveryHandler commands.ConfirmDeliveryCommandHandler
	failDeliveryHandler    commands.FailDeliveryCommandHandler
	retryDeliveryHandler   commands.RetryDeliveryCommandHandler
	rateDeliveryHandler    commands.RateDeliveryCommandHandler
	cancelFailedHandler    commands.CancelFailedDeliveryCommandHandler

	// Query handlers
	getOrderByTokenHandler queries.GetOrderByTokenQueryHandler
	getOrderHistoryHandler queries.GetOrderHistoryQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	changeStatusHandler commands.ChangeOrderStatusCommandHandler,
	confirmOrderHandler commands.ConfirmOrderCommandHandler,
	editOrderHandler commands.EditOrderCommandHandler,
	deleteOrderHandler commands.DeleteOrderCommandHandler,
	confirmDeliveryHandler commands.ConfirmDeliveryCommandHandler,
	failDeliveryHandler commands.FailDeliveryCommandHandler,
	retryDeliveryHandler commands.RetryDeliveryCommandHandler,
	rateDeliveryHandler commands.RateDeliveryCommandHandler,
	cancelFailedHandler commands.CancelFailedDeliveryCommandHandler,
	getOrderByTokenHandler queries.GetOrderByTokenQueryHandler,
	getOrderHistoryHandler queries.GetOrderHistoryQueryHandler,
) *Server {
	return &Server{
		changeStatusHandler:    changeStatusHandler,
		confirmOrderHandler:    confirmOrderHandler,
		editOrderHandler:       editOrderHandler,
		deleteOrderHandler:     deleteOrderHandler,
		confirmDeliveryHandler: confirmDeliveryHandler,
		failDeliveryHandler:    failDeliveryHandler,
		retryDeliveryHandler:   retryDeliveryHandler,
		rateDeliveryHandler:    rateDeliveryHandler,
		cancelFailedHandler:    cancelFailedHandler,
		getOrderByTokenHandler: getOrderByTokenHandler,
		getOrderHistoryHandler: getOrderHistoryHandler,
	}
}

// RegisterRoutes attaches all order lifecycle routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1")

	api.PATCH("/orders/:id/status", s.ChangeOrderStatus)
	api.POST("/orders/:id/confirm", s.ConfirmOrder)
	api.PUT("/orders/:id", s.EditOrder)
	api.DELETE("/orders/:id", s.DeleteOrder)
	api.POST("/orders/:id/rate", s.RateDelivery)
	api.POST("/orders/:id/cancel-delivery", s.CancelFailedDelivery)
	api.GET("/orders/:id/history", s.GetOrderHistory)

	api.GET("/delivery/:token", s.GetDeliverySlip)
	api.POST("/delivery/:token/confirm", s.ConfirmDelivery)
	api.POST("/delivery/:token/fail", s.FailDelivery)
	api.POST("/delivery/:token/retry", s.RetryDelivery)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// ErrorBody is the uniform error payload. Details carries structured context
// for version conflicts, denied transitions and stock shortages.
type ErrorBody struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ShortageBody describes one unfulfillable line item in a stock error.
type ShortageBody struct {
	ProductID string  `json:"product_id"`
	VariantID *string `json:"variant_id,omitempty"`
	Required  int     `json:"required"`
	Available int     `json:"available"`
	Shortage  int     `json:"shortage"`
}

// OrderBody is the dashboard-facing order representation.
type OrderBody struct {
	ID                   string     `json:"id"`
	TenantID             string     `json:"tenant_id"`
	Status               string     `json:"status"`
	Version              int64      `json:"version"`
	PaymentMethod        string     `json:"payment_method"`
	TotalPriceCents      int64      `json:"total_price_cents"`
	CODAmountCents       int64      `json:"cod_amount_cents"`
	AmountCollectedCents int64      `json:"amount_collected_cents"`
	HasAmountDiscrepancy bool       `json:"has_amount_discrepancy"`
	DeliveryToken        *string    `json:"delivery_token,omitempty"`
	CourierID            *string    `json:"courier_id,omitempty"`
	ConfirmedAt          *time.Time `json:"confirmed_at,omitempty"`
	ShippedAt            *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt          *time.Time `json:"delivered_at,omitempty"`
	CancelledAt          *time.Time `json:"cancelled_at,omitempty"`
	DeliveryOutcome      string     `json:"delivery_outcome"`
	HasActiveIncident    bool       `json:"has_active_incident"`
	FailureReason        string     `json:"failure_reason,omitempty"`
	Rated                bool       `json:"rated"`
	Rating               *int       `json:"rating,omitempty"`
	DeliveryAddress      string     `json:"delivery_address"`
	CustomerName         string     `json:"customer_name"`
	CustomerPhone        string     `json:"customer_phone"`
	Note                 string     `json:"note,omitempty"`
	LineItems            []LineBody `json:"line_items"`
}

// LineBody is one priced order line.
type LineBody struct {
	ProductID      string  `json:"product_id"`
	VariantID      *string `json:"variant_id,omitempty"`
	Quantity       int     `json:"quantity"`
	UnitPriceCents int64   `json:"unit_price_cents"`
}

func orderToBody(ord *order.Order) OrderBody {
	body := OrderBody{
		ID:                   ord.ID().String(),
		TenantID:             ord.TenantID().String(),
		Status:               ord.Status().String(),
		Version:              ord.Version(),
		PaymentMethod:        ord.PaymentMethod().String(),
		TotalPriceCents:      ord.TotalPrice().Cents(),
		CODAmountCents:       ord.CODAmount().Cents(),
		AmountCollectedCents: ord.AmountCollected().Cents(),
		HasAmountDiscrepancy: ord.HasAmountDiscrepancy(),
		ConfirmedAt:          ord.ConfirmedAt(),
		ShippedAt:            ord.ShippedAt(),
		DeliveredAt:          ord.DeliveredAt(),
		CancelledAt:          ord.CancelledAt(),
		DeliveryOutcome:      ord.DeliveryOutcome().String(),
		HasActiveIncident:    ord.HasActiveIncident(),
		FailureReason:        ord.FailureReason(),
		Rated:                ord.IsRated(),
		Rating:               ord.Rating(),
		DeliveryAddress:      ord.DeliveryAddress(),
		CustomerName:         ord.CustomerName(),
		CustomerPhone:        ord.CustomerPhone(),
		Note:                 ord.Note(),
	}

	if token := ord.DeliveryToken(); token != nil {
		value := token.String()
		body.DeliveryToken = &value
	}
	if courierID := ord.CourierID(); courierID != nil {
		value := courierID.String()
		body.CourierID = &value
	}

	body.LineItems = make([]LineBody, 0, len(ord.LineItems()))
	for _, item := range ord.LineItems() {
		line := LineBody{
			ProductID:      item.ProductID().String(),
			Quantity:       item.Quantity(),
			UnitPriceCents: item.UnitPrice().Cents(),
		}
		if variantID := item.VariantID(); variantID != nil {
			value := variantID.String()
			line.VariantID = &value
		}
		body.LineItems = append(body.LineItems, line)
	}

	return body
}

// ChangeOrderStatusRequest is the body of PATCH /orders/{id}/status.
type ChangeOrderStatusRequest struct {
	Status    string `json:"status"`
	ActorID   string `json:"actor_id"`
	Privilege string `json:"privilege"`
	Force     bool   `json:"force"`
	Note      string `json:"note"`
}

// ChangeOrderStatus handles PATCH /api/v1/orders/:id/status.
func (s *Server) ChangeOrderStatus(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	var request ChangeOrderStatusRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	to, err := order.ParseStatus(request.Status)
	if err != nil {
		return badRequest(ctx, "Invalid status: "+err.Error())
	}
	actor, err := parseActor(request.ActorID, request.Privilege)
	if err != nil {
		return badRequest(ctx, "Invalid actor: "+err.Error())
	}

	cmd, err := commands.NewChangeOrderStatusCommand(orderID, to, actor, request.Force, request.Note)
	if err != nil {
		return badRequest(ctx, "Invalid status change: "+err.Error())
	}

	ord, handleErr := s.changeStatusHandler.Handle(ctx.Request().Context(), cmd)
	if handleErr != nil {
		return mapError(ctx, handleErr)
	}

	return ctx.JSON(http.StatusOK, orderToBody(ord))
}

// ConfirmOrderRequest is the body of POST /orders/{id}/confirm.
type ConfirmOrderRequest struct {
	CourierID       string         `json:"courier_id"`
	ConfirmedBy     string         `json:"confirmed_by"`
	Upsell          *UpsellRequest `json:"upsell,omitempty"`
	DiscountCents   int64          `json:"discount_cents"`
	AddressOverride *string        `json:"address_override,omitempty"`
}

// UpsellRequest is the optional extra line added during confirmation.
type UpsellRequest struct {
	ProductID string  `json:"product_id"`
	VariantID *string `json:"variant_id,omitempty"`
	Quantity  int     `json:"quantity"`
}

// ConfirmOrder handles POST /api/v1/orders/:id/confirm.
func (s *Server) ConfirmOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	var request ConfirmOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	courierID, err := kernel.UUIDFromString(request.CourierID)
	if err != nil {
		return badRequest(ctx, "Invalid courier id: "+err.Error())
	}
	confirmedBy, err := kernel.UUIDFromString(request.ConfirmedBy)
	if err != nil {
		return badRequest(ctx, "Invalid confirmed_by id: "+err.Error())
	}
	discount, err := kernel.NewMoneyFromCents(request.DiscountCents)
	if err != nil {
		return badRequest(ctx, "Invalid discount: "+err.Error())
	}

	var upsell *commands.ConfirmOrderUpsell
	if request.Upsell != nil {
		parsed, parseErr := parseUpsell(*request.Upsell)
		if parseErr != nil {
			return badRequest(ctx, "Invalid upsell: "+parseErr.Error())
		}
		upsell = &parsed
	}

	cmd, err := commands.NewConfirmOrderCommand(orderID, courierID, confirmedBy, upsell, discount, request.AddressOverride)
	if err != nil {
		return badRequest(ctx, "Invalid confirmation: "+err.Error())
	}

	ord, handleErr := s.confirmOrderHandler.Handle(ctx.Request().Context(), cmd)
	if handleErr != nil {
		return mapError(ctx, handleErr)
	}

	return ctx.JSON(http.StatusOK, orderToBody(ord))
}

// EditOrderRequest is the body of PUT /orders/{id}. ExpectedVersion, when
// set, makes the edit conditional on the version the caller last observed.
type EditOrderRequest struct {
	DeliveryAddress string `json:"delivery_address"`
	CustomerName    string `json:"customer_name"`
	CustomerPhone   string `json:"customer_phone"`
	Note            string `json:"note"`
	ExpectedVersion *int64 `json:"expected_version,omitempty"`
}

// EditOrder handles PUT /api/v1/orders/:id.
func (s *Server) EditOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	var request EditOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	var cmd commands.EditOrderCommand
	if request.ExpectedVersion != nil {
		cmd, err = commands.NewEditOrderCommandWithVersion(orderID,
			request.DeliveryAddress, request.CustomerName, request.CustomerPhone, request.Note,
			*request.ExpectedVersion)
	} else {
		cmd, err = commands.NewEditOrderCommand(orderID,
			request.DeliveryAddress, request.CustomerName, request.CustomerPhone, request.Note)
	}
	if err != nil {
		return badRequest(ctx, "Invalid edit: "+err.Error())
	}

	ord, handleErr := s.editOrderHandler.Handle(ctx.Request().Context(), cmd)
	if handleErr != nil {
		return mapError(ctx, handleErr)
	}

	return ctx.JSON(http.StatusOK, orderToBody(ord))
}

// DeleteOrder handles DELETE /api/v1/orders/:id. The acting principal comes
// from query parameters; owners purge, everyone else soft-deletes.
func (s *Server) DeleteOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	actor, err := parseActor(ctx.QueryParam("actor_id"), ctx.QueryParam("privilege"))
	if err != nil {
		return badRequest(ctx, "Invalid actor: "+err.Error())
	}

	cmd, err := commands.NewDeleteOrderCommand(orderID, actor)
	if err != nil {
		return badRequest(ctx, "Invalid deletion: "+err.Error())
	}

	if handleErr := s.deleteOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return mapError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RateDeliveryRequest is the body of POST /orders/{id}/rate.
type RateDeliveryRequest struct {
	Rating int `json:"rating"`
}

// RateDelivery handles POST /api/v1/orders/:id/rate.
func (s *Server) RateDelivery(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	var request RateDeliveryRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewRateDeliveryCommand(orderID, request.Rating)
	if err != nil {
		return mapError(ctx, err)
	}

	if handleErr := s.rateDeliveryHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return mapError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CancelFailedDeliveryRequest is the body of POST /orders/{id}/cancel-delivery.
type CancelFailedDeliveryRequest struct {
	CancelledBy string `json:"cancelled_by"`
}

// CancelFailedDelivery handles POST /api/v1/orders/:id/cancel-delivery.
func (s *Server) CancelFailedDelivery(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	var request CancelFailedDeliveryRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cancelledBy, err := kernel.UUIDFromString(request.CancelledBy)
	if err != nil {
		return badRequest(ctx, "Invalid cancelled_by id: "+err.Error())
	}

	cmd, err := commands.NewCancelFailedDeliveryCommand(orderID, cancelledBy)
	if err != nil {
		return badRequest(ctx, "Invalid cancellation: "+err.Error())
	}

	if handleErr := s.cancelFailedHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return mapError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// HistoryEntryBody is one transition record in an order's history.
type HistoryEntryBody struct {
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	ChangedBy      string    `json:"changed_by"`
	Source         string    `json:"source"`
	Note           string    `json:"note,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// GetOrderHistory handles GET /api/v1/orders/:id/history.
func (s *Server) GetOrderHistory(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	query, err := queries.NewGetOrderHistoryQuery(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid history query: "+err.Error())
	}

	records, err := s.getOrderHistoryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return mapError(ctx, err)
	}

	response := make([]HistoryEntryBody, len(records))
	for i, record := range records {
		response[i] = HistoryEntryBody{
			PreviousStatus: record.PreviousStatus,
			NewStatus:      record.NewStatus,
			ChangedBy:      record.ChangedBy,
			Source:         record.Source,
			Note:           record.Note,
			CreatedAt:      record.CreatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// DeliverySlipBody is the courier-facing view of an order, resolved by token.
// It never exposes internal identifiers.
type DeliverySlipBody struct {
	Status               string `json:"status"`
	PaymentMethod        string `json:"payment_method"`
	CODAmountCents       int64  `json:"cod_amount_cents"`
	AmountCollectedCents int64  `json:"amount_collected_cents"`
	HasAmountDiscrepancy bool   `json:"has_amount_discrepancy"`
	DeliveryAddress      string `json:"delivery_address"`
	CustomerName         string `json:"customer_name"`
	CustomerPhone        string `json:"customer_phone"`
	Note                 string `json:"note,omitempty"`
	DeliveryOutcome      string `json:"delivery_outcome"`
	HasActiveIncident    bool   `json:"has_active_incident"`
	FailureReason        string `json:"failure_reason,omitempty"`
	Rated                bool   `json:"rated"`
}

// GetDeliverySlip handles GET /api/v1/delivery/:token.
func (s *Server) GetDeliverySlip(ctx echo.Context) error {
	token, err := order.RestoreDeliveryToken(ctx.Param("token"))
	if err != nil {
		return notFoundToken(ctx)
	}

	query, err := queries.NewGetOrderByTokenQuery(token)
	if err != nil {
		return notFoundToken(ctx)
	}

	slip, err := s.getOrderByTokenHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return mapError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, DeliverySlipBody{
		Status:               slip.Status,
		PaymentMethod:        slip.PaymentMethod,
		CODAmountCents:       slip.CODAmountCents,
		AmountCollectedCents: slip.AmountCollectedCents,
		HasAmountDiscrepancy: slip.HasAmountDiscrepancy,
		DeliveryAddress:      slip.DeliveryAddress,
		CustomerName:         slip.CustomerName,
		CustomerPhone:        slip.CustomerPhone,
		Note:                 slip.Note,
		DeliveryOutcome:      order.DeliveryOutcome(slip.DeliveryOutcome).String(),
		HasActiveIncident:    slip.HasActiveIncident,
		FailureReason:        slip.FailureReason,
		Rated:                slip.Rated,
	})
}

// ConfirmDeliveryRequest is the body of POST /delivery/{token}/confirm.
type ConfirmDeliveryRequest struct {
	AmountCollectedCents *int64 `json:"amount_collected_cents,omitempty"`
	ReportDiscrepancy    bool   `json:"report_discrepancy"`
}

// ConfirmDelivery handles POST /api/v1/delivery/:token/confirm.
func (s *Server) ConfirmDelivery(ctx echo.Context) error {
	token, err := order.RestoreDeliveryToken(ctx.Param("token"))
	if err != nil {
		return notFoundToken(ctx)
	}

	var request ConfirmDeliveryRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	var collected *kernel.Money
	if request.AmountCollectedCents != nil {
		money, moneyErr := kernel.NewMoneyFromCents(*request.AmountCollectedCents)
		if moneyErr != nil {
			return badRequest(ctx, "Invalid collected amount: "+moneyErr.Error())
		}
		collected = &money
	}

	cmd, err := commands.NewConfirmDeliveryCommand(token, collected, request.ReportDiscrepancy)
	if err != nil {
		return mapError(ctx, err)
	}

	ord, handleErr := s.confirmDeliveryHandler.Handle(ctx.Request().Context(), cmd)
	if handleErr != nil {
		return mapError(ctx, handleErr)
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"delivery_outcome":       ord.DeliveryOutcome().String(),
		"amount_collected_cents": ord.AmountCollected().Cents(),
		"has_amount_discrepancy": ord.HasAmountDiscrepancy(),
	})
}

// FailDeliveryRequest is the body of POST /delivery/{token}/fail.
type FailDeliveryRequest struct {
	Reason string `json:"reason"`
}

// FailDelivery handles POST /api/v1/delivery/:token/fail.
func (s *Server) FailDelivery(ctx echo.Context) error {
	token, err := order.RestoreDeliveryToken(ctx.Param("token"))
	if err != nil {
		return notFoundToken(ctx)
	}

	var request FailDeliveryRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewFailDeliveryCommand(token, request.Reason)
	if err != nil {
		return mapError(ctx, err)
	}

	if handleErr := s.failDeliveryHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return mapError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RetryDelivery handles POST /api/v1/delivery/:token/retry.
func (s *Server) RetryDelivery(ctx echo.Context) error {
	token, err := order.RestoreDeliveryToken(ctx.Param("token"))
	if err != nil {
		return notFoundToken(ctx)
	}

	cmd, err := commands.NewRetryDeliveryCommand(token)
	if err != nil {
		return mapError(ctx, err)
	}

	if handleErr := s.retryDeliveryHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return mapError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

func parseActor(id, privilege string) (order.Actor, error) {
	actorID, err := kernel.UUIDFromString(id)
	if err != nil {
		return order.Actor{}, err
	}
	rank, err := order.ParsePrivilege(privilege)
	if err != nil {
		return order.Actor{}, err
	}
	return order.NewActor(actorID, rank)
}

func parseUpsell(request UpsellRequest) (commands.ConfirmOrderUpsell, error) {
	productID, err := kernel.UUIDFromString(request.ProductID)
	if err != nil {
		return commands.ConfirmOrderUpsell{}, err
	}

	upsell := commands.ConfirmOrderUpsell{
		ProductID: productID,
		Quantity:  request.Quantity,
	}
	if request.VariantID != nil {
		variantID, variantErr := kernel.UUIDFromString(*request.VariantID)
		if variantErr != nil {
			return commands.ConfirmOrderUpsell{}, variantErr
		}
		upsell.VariantID = &variantID
	}

	return upsell, nil
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorBody{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

func notFoundToken(ctx echo.Context) error {
	return ctx.JSON(http.StatusNotFound, ErrorBody{
		Code:    http.StatusNotFound,
		Message: "Unknown delivery token",
	})
}

// mapError translates application and domain errors into HTTP responses.
// Version conflicts are 409, rule and input violations are 400 with an
// actionable message, anything unclassified is a 500 without leaking
// internals.
func mapError(ctx echo.Context, err error) error {
	var versionConflict *errs.VersionConflictError
	if errors.As(err, &versionConflict) {
		return ctx.JSON(http.StatusConflict, ErrorBody{
			Code:    http.StatusConflict,
			Message: "Order was modified by someone else",
			Details: map[string]any{
				"current_version": versionConflict.CurrentVersion,
				"your_version":    versionConflict.StaleVersion,
			},
		})
	}

	var denied *order.TransitionDeniedError
	if errors.As(err, &denied) {
		return ctx.JSON(http.StatusBadRequest, ErrorBody{
			Code:    http.StatusBadRequest,
			Message: denied.Error(),
			Details: map[string]any{
				"from":   denied.From.String(),
				"to":     denied.To.String(),
				"reason": denied.Reason,
			},
		})
	}

	var stock *services.InsufficientStockError
	if errors.As(err, &stock) {
		shortages := make([]ShortageBody, len(stock.Shortages))
		for i, shortage := range stock.Shortages {
			shortages[i] = ShortageBody{
				ProductID: shortage.ProductID.String(),
				Required:  shortage.Required,
				Available: shortage.Available,
				Shortage:  shortage.Shortage,
			}
			if shortage.VariantID != nil {
				value := shortage.VariantID.String()
				shortages[i].VariantID = &value
			}
		}
		return ctx.JSON(http.StatusBadRequest, ErrorBody{
			Code:    http.StatusBadRequest,
			Message: "Insufficient stock to ship the order",
			Details: map[string]any{"shortages": shortages},
		})
	}

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, ErrorBody{
			Code:    http.StatusNotFound,
			Message: "Not found",
		})
	case errors.Is(err, errs.ErrCommandForbidden):
		return ctx.JSON(http.StatusForbidden, ErrorBody{
			Code:    http.StatusForbidden,
			Message: err.Error(),
		})
	case errors.Is(err, order.ErrOrderIsNotPending),
		errors.Is(err, order.ErrActiveIncident),
		errors.Is(err, order.ErrOutcomeAlreadyRecorded),
		errors.Is(err, order.ErrDeliveryNotConfirmed),
		errors.Is(err, order.ErrDeliveryAlreadyRated),
		errors.Is(err, order.ErrDeliveryNotFailed),
		errors.Is(err, order.ErrNoIncidentToRetry),
		errors.Is(err, order.ErrOrderAlreadyDeleted):
		return ctx.JSON(http.StatusBadRequest, ErrorBody{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrVersionIsInvalid):
		return ctx.JSON(http.StatusBadRequest, ErrorBody{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	default:
		return ctx.JSON(http.StatusInternalServerError, ErrorBody{
			Code:    http.StatusInternalServerError,
			Message: "Internal server error",
		})
	}
}
