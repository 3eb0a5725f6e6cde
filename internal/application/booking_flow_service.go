package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/melbourne-limo/service-booking/internal/domain"
	bookingDomain "github.com/melbourne-limo/service-booking/internal/domain/booking"
	"github.com/melbourne-limo/service-booking/internal/events"
	"github.com/melbourne-limo/service-booking/internal/platform/kafka"
	"github.com/melbourne-limo/service-booking/internal/routing"
	"github.com/melbourne-limo/service-booking/internal/session"
	"go.uber.org/zap"
)

// EventPublisher publishes domain events. Satisfied by *kafka.Producer.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

// BookingFlow orchestrates the two-step calculate/confirm booking protocol.
//
// calculate resolves the route, prices the trip and stashes the result in the
// session-scoped quote store; confirm pops the server-held price and persists
// the booking. The client-visible form never carries a price.
type BookingFlow struct {
	repo      bookingDomain.Repository
	resolver  routing.Resolver
	quotes    session.Store
	publisher EventPublisher
	logger    *zap.Logger
}

// NewBookingFlow creates a BookingFlow.
func NewBookingFlow(
	repo bookingDomain.Repository,
	resolver routing.Resolver,
	quotes session.Store,
	publisher EventPublisher,
	logger *zap.Logger,
) *BookingFlow {
	return &BookingFlow{
		repo:      repo,
		resolver:  resolver,
		quotes:    quotes,
		publisher: publisher,
		logger:    logger,
	}
}

// Calculate resolves the trip's route, computes the price breakdown and
// stores the pending quote under the session. Nothing is persisted. A
// resolver failure aborts before any session write.
func (s *BookingFlow) Calculate(ctx context.Context, sessionID string, req TripRequest) (*QuotePreview, error) {
	pickup := strings.TrimSpace(req.PickupAddress)
	destination := strings.TrimSpace(req.DestinationAddress)
	stop := strings.TrimSpace(req.AdditionalStop)

	if pickup == "" {
		return nil, domain.NewValidationError("pickup address is required")
	}
	if destination == "" {
		return nil, domain.NewValidationError("destination address is required")
	}

	tier := bookingDomain.ParseServiceTier(req.ServiceType)

	summary, err := s.resolver.Resolve(ctx, pickup, destination, stop)
	if err != nil {
		return nil, err
	}

	// Provider toll detection wins when available; otherwise trust the
	// rider's checkbox.
	hasTolls := req.HasTolls
	if summary.TollsKnown {
		hasTolls = summary.HasTolls
	}

	breakdown, err := bookingDomain.ComputeQuote(bookingDomain.QuoteParams{
		Tier:         tier,
		DistanceKm:   summary.DistanceKm,
		HasExtraStop: stop != "",
		HasTolls:     hasTolls,
		HasBabySeat:  req.BabySeat,
		ReturnRide:   req.ReturnRide,
	})
	if err != nil {
		return nil, err
	}

	pending := session.PendingQuote{
		PriceCents: breakdown.TotalCents,
		Breakdown:  breakdown,
		HasTolls:   hasTolls,
	}
	if err := s.quotes.SavePending(ctx, sessionID, pending); err != nil {
		return nil, fmt.Errorf("failed to store pending quote: %w", err)
	}

	s.logger.Info("quote calculated",
		zap.String("session_id", sessionID),
		zap.String("tier", tier.String()),
		zap.Float64("distance_km", summary.DistanceKm),
		zap.Int64("total_cents", breakdown.TotalCents),
	)

	return &QuotePreview{
		ServiceTier:     tier,
		DistanceKm:      summary.DistanceKm,
		HasTolls:        hasTolls,
		Breakdown:       breakdown,
		TotalPriceCents: breakdown.TotalCents,
		Currency:        bookingDomain.CurrencyAUD,
	}, nil
}

// Confirm consumes the session's pending price and persists the booking.
// The submitted fields are echoed into the record, but the price comes only
// from the pending quote; absence of a pending price fails closed with
// ErrSessionExpired and persists nothing.
func (s *BookingFlow) Confirm(ctx context.Context, sessionID string, req TripRequest) (*ConfirmationDTO, error) {
	priceCents, err := s.quotes.PopPriceCents(ctx, sessionID)
	if errors.Is(err, session.ErrNoPendingQuote) {
		return nil, ErrSessionExpired
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read pending quote: %w", err)
	}

	// Breakdown and toll flag are display-only; their absence is tolerated.
	breakdown, err := s.quotes.PopBreakdown(ctx, sessionID)
	if err != nil {
		s.logger.Warn("failed to pop pending breakdown", zap.Error(err))
		breakdown = nil
	}
	hasTolls, err := s.quotes.PopHasTolls(ctx, sessionID)
	if err != nil {
		s.logger.Warn("failed to pop pending toll flag", zap.Error(err))
		hasTolls = false
	}

	var bd bookingDomain.PriceBreakdown
	if breakdown != nil {
		bd = *breakdown
	}

	bk, err := bookingDomain.NewBooking(
		bookingDomain.Passenger{
			Name:       req.PassengerName,
			Phone:      req.PassengerNumber,
			Email:      req.PassengerEmail,
			Passengers: req.Passengers,
			Bags:       req.Bags,
		},
		bookingDomain.TripDetails{
			PickupAddress:      strings.TrimSpace(req.PickupAddress),
			DestinationAddress: strings.TrimSpace(req.DestinationAddress),
			AdditionalStop:     strings.TrimSpace(req.AdditionalStop),
			FlightNumber:       req.FlightNumber,
			PickupDate:         req.PickupDate,
			PickupTime:         req.PickupTime,
		},
		bookingDomain.Preferences{
			ServiceTier:        bookingDomain.ParseServiceTier(req.ServiceType),
			BabySeat:           req.BabySeat,
			ReturnRide:         req.ReturnRide,
			SpecialInstruction: req.SpecialInstruction,
			VehicleColour:      req.VehicleColour,
			WeddingRibbon:      req.WeddingRibbon,
			SpecialSignboard:   req.SpecialSignboard,
		},
		bookingDomain.PaymentCard{
			NameOnCard:       req.NameOnCard,
			CardType:         req.CardType,
			CardNumberMasked: bookingDomain.MaskCardNumber(req.CardNumber),
		},
		bd.DistanceKm,
		hasTolls,
		bd,
		priceCents,
		bookingDomain.CurrencyAUD,
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, bk); err != nil {
		return nil, &PersistenceError{Err: err}
	}

	s.publishBookingConfirmed(ctx, bk)

	s.logger.Info("booking confirmed",
		zap.String("session_id", sessionID),
		zap.String("booking_number", bk.BookingNumber()),
		zap.Int64("total_cents", bk.TotalPriceCents()),
	)

	return &ConfirmationDTO{
		Booking:   toBookingDTO(bk),
		Breakdown: breakdown,
		HasTolls:  hasTolls,
	}, nil
}

// GetBooking retrieves a single booking by ID.
func (s *BookingFlow) GetBooking(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// GetBookingByNumber retrieves a single booking by its booking number.
func (s *BookingFlow) GetBookingByNumber(ctx context.Context, number string) (*BookingDTO, error) {
	bk, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// --- Admin methods ---

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByServiceTier map[string]int64 `json:"by_service_tier"`
}

// ListAllBookings returns a paginated list of all bookings (admin).
func (s *BookingFlow) ListAllBookings(ctx context.Context, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	bookings, total, err := s.repo.ListAll(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}

	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingFlow) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.repo.CountByServiceTier(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	return &BookingStatsDTO{
		TotalBookings: total,
		ByServiceTier: counts,
	}, nil
}

// --- Helpers ---

func (s *BookingFlow) publishBookingConfirmed(ctx context.Context, bk *bookingDomain.Booking) {
	evt := events.BookingConfirmedEvent{
		BookingID:       bk.ID(),
		BookingNumber:   bk.BookingNumber(),
		PassengerEmail:  bk.Passenger().Email,
		ServiceTier:     bk.Preferences().ServiceTier.String(),
		PickupDate:      bk.Trip().PickupDate,
		DistanceKm:      bk.DistanceKm(),
		ReturnRide:      bk.Preferences().ReturnRide,
		TotalPriceCents: bk.TotalPriceCents(),
		Currency:        bk.Currency(),
		OccurredAt:      time.Now().UTC(),
	}

	cloudEvent, err := kafka.NewCloudEvent("service-booking", events.BookingConfirmed, evt)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", events.BookingConfirmed),
			zap.Error(err),
		)
		return
	}

	if err := s.publisher.PublishEvent(ctx, events.TopicBookingEvents, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", events.TopicBookingEvents),
			zap.String("event_type", events.BookingConfirmed),
			zap.Error(err),
		)
	}
}
