package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/melbourne-limo/service-booking/internal/application"
	"github.com/melbourne-limo/service-booking/internal/domain"
	"github.com/melbourne-limo/service-booking/internal/domain/booking"
	"github.com/melbourne-limo/service-booking/internal/platform/response"
	"github.com/melbourne-limo/service-booking/internal/routing"
)

const (
	sessionCookieName   = "booking_session"
	sessionCookieMaxAge = 24 * 60 * 60

	actionCalculate = "calculate"
	actionConfirm   = "confirm"

	defaultPassengers = 2
	defaultBags       = 2

	dateLayout = "2006-01-02"
)

// BookingHandler handles the public two-step booking flow.
type BookingHandler struct {
	flow *application.BookingFlow
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(flow *application.BookingFlow) *BookingHandler {
	return &BookingHandler{flow: flow}
}

// RegisterRoutes registers the public booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/api/v1/bookings")
	{
		bookings.GET("/new", h.NewBookingForm)
		bookings.POST("", h.SubmitBooking)
		bookings.GET("/:id", h.GetBooking)
	}
}

// NewBookingForm handles GET /api/v1/bookings/new. It returns the blank form
// defaults and the service tier catalogue.
func (h *BookingHandler) NewBookingForm(c *gin.Context) {
	allTiers := booking.AllTiers()
	tiers := make([]gin.H, 0, len(allTiers))
	for _, tier := range allTiers {
		rates := tier.RateCard()
		tiers = append(tiers, gin.H{
			"name":           tier.String(),
			"base_cents":     rates.BaseCents,
			"per_km_cents":   rates.PerKmCents,
			"stop_fee_cents": rates.StopCents,
		})
	}

	response.Success(c, gin.H{
		"view": "form",
		"form": gin.H{
			"action":               actionCalculate,
			"number_of_passengers": defaultPassengers,
			"number_of_bags":       defaultBags,
			"pickup_date":          time.Now().Format(dateLayout),
			"limo_service_type":    booking.DefaultTier.String(),
		},
		"service_tiers": tiers,
		"currency":      booking.CurrencyAUD,
	})
}

// SubmitBooking handles POST /api/v1/bookings. The action field selects the
// step: calculate prices the trip and returns a preview, confirm consumes the
// session-held price and persists the booking. Every failure branch echoes
// the submitted fields back so the user never loses their input.
func (h *BookingHandler) SubmitBooking(c *gin.Context) {
	req, echo := parseTripForm(c)
	sessionID := h.sessionID(c)

	action := c.PostForm("action")
	if action == "" {
		action = actionCalculate
	}

	switch action {
	case actionConfirm:
		h.confirm(c, sessionID, req, echo)
	case actionCalculate:
		h.calculate(c, sessionID, req, echo)
	default:
		renderFormError(c, http.StatusBadRequest, "unknown action: "+action, echo)
	}
}

// GetBooking handles GET /api/v1/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	result, err := h.flow.GetBooking(c.Request.Context(), bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

func (h *BookingHandler) calculate(c *gin.Context, sessionID string, req application.TripRequest, echo gin.H) {
	quote, err := h.flow.Calculate(c.Request.Context(), sessionID, req)
	if err != nil {
		status, msg := classifyFlowError(err)
		renderFormError(c, status, msg, echo)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"view":  "preview",
		"form":  echo,
		"quote": quote,
	})
}

func (h *BookingHandler) confirm(c *gin.Context, sessionID string, req application.TripRequest, echo gin.H) {
	result, err := h.flow.Confirm(c.Request.Context(), sessionID, req)
	if err != nil {
		status, msg := classifyFlowError(err)
		renderFormError(c, status, msg, echo)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"view":      "confirmed",
		"booking":   result.Booking,
		"breakdown": result.Breakdown,
		"has_tolls": result.HasTolls,
	})
}

// sessionID reads the booking session cookie, minting one when absent. A
// fresh session naturally has no pending quote, so a confirm against it
// fails closed as expired.
func (h *BookingHandler) sessionID(c *gin.Context) string {
	if id, err := c.Cookie(sessionCookieName); err == nil && id != "" {
		return id
	}
	id := uuid.NewString()
	c.SetCookie(sessionCookieName, id, sessionCookieMaxAge, "/", "", false, true)
	return id
}

// parseTripForm normalizes the form submission into a typed request plus an
// echo map for re-rendering. Checkbox semantics: present with a non-empty
// value means checked.
func parseTripForm(c *gin.Context) (application.TripRequest, gin.H) {
	pickupDate := time.Now()
	if raw := c.PostForm("pickup_date"); raw != "" {
		if parsed, err := time.Parse(dateLayout, raw); err == nil {
			pickupDate = parsed
		}
	}

	serviceType := c.PostForm("limo_service_type")

	req := application.TripRequest{
		PassengerName:   c.PostForm("passenger_name"),
		PassengerNumber: c.PostForm("passenger_number"),
		PassengerEmail:  c.PostForm("passenger_email"),
		Passengers:      formInt(c, "number_of_passengers", defaultPassengers),
		Bags:            formInt(c, "number_of_bags", defaultBags),

		PickupAddress:      c.PostForm("pickup_address"),
		DestinationAddress: c.PostForm("destination_address"),
		AdditionalStop:     c.PostForm("additional_stop"),
		FlightNumber:       c.PostForm("flight_number"),
		PickupDate:         pickupDate,
		PickupTime:         c.PostForm("pickup_time"),

		ServiceType: serviceType,
		BabySeat:    formCheckbox(c, "baby_seat"),
		ReturnRide:  formCheckbox(c, "return_ride"),
		HasTolls:    formCheckbox(c, "has_tolls"),

		SpecialInstruction: c.PostForm("special_instruction"),
		VehicleColour:      c.PostForm("vehicle_colour"),
		WeddingRibbon:      c.PostForm("wedding_ribbon"),
		SpecialSignboard:   c.PostForm("special_signboard"),

		NameOnCard: c.PostForm("name_on_card"),
		CardType:   c.PostForm("card_type"),
		CardNumber: c.PostForm("card_number"),
	}

	echo := gin.H{
		"passenger_name":       req.PassengerName,
		"passenger_number":     req.PassengerNumber,
		"passenger_email":      req.PassengerEmail,
		"number_of_passengers": req.Passengers,
		"number_of_bags":       req.Bags,
		"pickup_address":       req.PickupAddress,
		"destination_address":  req.DestinationAddress,
		"additional_stop":      req.AdditionalStop,
		"flight_number":        req.FlightNumber,
		"pickup_date":          req.PickupDate.Format(dateLayout),
		"pickup_time":          req.PickupTime,
		"limo_service_type":    booking.ParseServiceTier(serviceType).String(),
		"baby_seat":            req.BabySeat,
		"return_ride":          req.ReturnRide,
		"has_tolls":            req.HasTolls,
		"special_instruction":  req.SpecialInstruction,
		"vehicle_colour":       req.VehicleColour,
		"wedding_ribbon":       req.WeddingRibbon,
		"special_signboard":    req.SpecialSignboard,
		"name_on_card":         req.NameOnCard,
		"card_type":            req.CardType,
		"card_number":          booking.MaskCardNumber(req.CardNumber),
	}

	return req, echo
}

func formInt(c *gin.Context, key string, fallback int) int {
	raw := c.PostForm(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func formCheckbox(c *gin.Context, key string) bool {
	return c.PostForm(key) != ""
}

// classifyFlowError maps flow failures to an HTTP status and a message that
// tells the user whether to fix their input or retry.
func classifyFlowError(err error) (int, string) {
	var addrErr *routing.AddressNotFoundError
	if errors.As(err, &addrErr) {
		return http.StatusUnprocessableEntity, "we could not find that address, please check your addresses: " + addrErr.Address
	}
	if errors.Is(err, routing.ErrNoRoute) {
		return http.StatusUnprocessableEntity, "no drivable route found, please check your addresses"
	}

	var provErr *routing.ProviderError
	if errors.As(err, &provErr) {
		return http.StatusServiceUnavailable, "the route service is temporarily unavailable, please try again"
	}

	if errors.Is(err, application.ErrSessionExpired) {
		return http.StatusGone, "your quote has expired, please calculate the price again"
	}

	var persistErr *application.PersistenceError
	if errors.As(err, &persistErr) {
		return http.StatusInternalServerError, "we could not save your booking, please calculate the price again"
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) && domainErr.Code == domain.CodeValidation {
		return http.StatusBadRequest, domainErr.Message
	}

	return http.StatusInternalServerError, "something went wrong, please try again"
}

func renderFormError(c *gin.Context, status int, message string, echo gin.H) {
	c.JSON(status, gin.H{
		"view":  "form",
		"error": message,
		"form":  echo,
	})
}
