package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/melbourne-limo/service-booking/internal/domain"
	bookingDomain "github.com/melbourne-limo/service-booking/internal/domain/booking"
	"gorm.io/gorm"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BookingNumber   string          `gorm:"uniqueIndex;not null;size:20"`
	ServiceTier     string          `gorm:"not null;size:30;index"`
	Passenger       json.RawMessage `gorm:"type:jsonb;not null"`
	Trip            json.RawMessage `gorm:"type:jsonb;not null"`
	Preferences     json.RawMessage `gorm:"type:jsonb;not null"`
	PaymentCard     json.RawMessage `gorm:"type:jsonb;not null"`
	DistanceKm      float64         `gorm:"not null"`
	HasTolls        bool            `gorm:"not null;default:false"`
	PriceBreakdown  json.RawMessage `gorm:"type:jsonb;not null"`
	TotalPriceCents int64           `gorm:"not null"`
	Currency        string          `gorm:"not null;size:3;default:'AUD'"`
	CreatedAt       time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of booking.Repository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// Save persists a new booking.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	model, err := toBookingModel(bk)
	if err != nil {
		return fmt.Errorf("failed to convert booking to model: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByNumber retrieves a booking by its booking number.
func (r *GormBookingRepository) FindByNumber(ctx context.Context, number string) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("booking_number = ?", number).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", number)
		}
		return nil, fmt.Errorf("failed to find booking by number: %w", err)
	}
	return toDomainBooking(&model)
}

// ListAll retrieves all bookings with pagination (admin).
func (r *GormBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bk, err := toDomainBooking(&m)
		if err != nil {
			return nil, 0, err
		}
		bookings[i] = bk
	}

	return bookings, total, nil
}

// CountByServiceTier returns booking counts grouped by tier (admin).
func (r *GormBookingRepository) CountByServiceTier(ctx context.Context) (map[string]int64, error) {
	type tierCount struct {
		ServiceTier string
		Count       int64
	}
	var results []tierCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("service_tier, count(*) as count").
		Group("service_tier").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by service tier: %w", err)
	}

	counts := make(map[string]int64)
	for _, tc := range results {
		counts[tc.ServiceTier] = tc.Count
	}
	return counts, nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) (*BookingModel, error) {
	passengerJSON, err := json.Marshal(bk.Passenger())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal passenger: %w", err)
	}

	tripJSON, err := json.Marshal(bk.Trip())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal trip: %w", err)
	}

	prefsJSON, err := json.Marshal(bk.Preferences())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal preferences: %w", err)
	}

	cardJSON, err := json.Marshal(bk.PaymentCard())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payment card: %w", err)
	}

	breakdownJSON, err := json.Marshal(bk.Breakdown())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal price breakdown: %w", err)
	}

	return &BookingModel{
		ID:              bk.ID(),
		BookingNumber:   bk.BookingNumber(),
		ServiceTier:     bk.Preferences().ServiceTier.String(),
		Passenger:       passengerJSON,
		Trip:            tripJSON,
		Preferences:     prefsJSON,
		PaymentCard:     cardJSON,
		DistanceKm:      bk.DistanceKm(),
		HasTolls:        bk.HasTolls(),
		PriceBreakdown:  breakdownJSON,
		TotalPriceCents: bk.TotalPriceCents(),
		Currency:        bk.Currency(),
		CreatedAt:       bk.CreatedAt(),
	}, nil
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	var passenger bookingDomain.Passenger
	if err := json.Unmarshal(m.Passenger, &passenger); err != nil {
		return nil, fmt.Errorf("failed to unmarshal passenger: %w", err)
	}

	var trip bookingDomain.TripDetails
	if err := json.Unmarshal(m.Trip, &trip); err != nil {
		return nil, fmt.Errorf("failed to unmarshal trip: %w", err)
	}

	var prefs bookingDomain.Preferences
	if err := json.Unmarshal(m.Preferences, &prefs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal preferences: %w", err)
	}

	var card bookingDomain.PaymentCard
	if err := json.Unmarshal(m.PaymentCard, &card); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payment card: %w", err)
	}

	var breakdown bookingDomain.PriceBreakdown
	if err := json.Unmarshal(m.PriceBreakdown, &breakdown); err != nil {
		return nil, fmt.Errorf("failed to unmarshal price breakdown: %w", err)
	}

	return bookingDomain.ReconstructBooking(
		m.ID,
		m.BookingNumber,
		passenger,
		trip,
		prefs,
		card,
		m.DistanceKm,
		m.HasTolls,
		breakdown,
		m.TotalPriceCents,
		m.Currency,
		m.CreatedAt,
	), nil
}
