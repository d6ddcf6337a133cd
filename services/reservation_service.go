package services

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/yeremiapane/restaurant-ops/kds"
	"github.com/yeremiapane/restaurant-ops/models"
	"github.com/yeremiapane/restaurant-ops/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const DefaultReservationWindow = 2 * time.Hour

type ReservationService struct {
	db       *gorm.DB
	window   time.Duration
	notifier *Notifier
	now      func() time.Time
}

func NewReservationService(db *gorm.DB, window time.Duration, notifier *Notifier) *ReservationService {
	if window <= 0 {
		window = DefaultReservationWindow
	}
	return &ReservationService{db: db, window: window, notifier: notifier, now: time.Now}
}

// ReservationRequest describes a booking made at the front desk. Email is
// only stored when a new customer row is created.
type ReservationRequest struct {
	CustomerName string
	Phone        string
	Email        *string
	TableID      uint
	ReservedAt   time.Time
	PartySize    int
}

// normalizeSlot keeps stored times comparable across drivers.
func normalizeSlot(t time.Time) time.Time {
	return t.UTC().Truncate(time.Minute)
}

// IsTableAvailable reports whether no booked reservation on the table lies
// within the window around at. Lookup failures count as unavailable.
func (s *ReservationService) IsTableAvailable(ctx context.Context, tableID uint, at time.Time) bool {
	conflict, err := s.hasConflict(s.db.WithContext(ctx), tableID, normalizeSlot(at))
	if err != nil {
		utils.ErrorLogger.WithField("table_id", tableID).Errorf("availability check failed: %v", err)
		return false
	}
	return !conflict
}

// hasConflict uses a closed window so a booking exactly two hours away from
// another still conflicts.
func (s *ReservationService) hasConflict(db *gorm.DB, tableID uint, at time.Time) (bool, error) {
	var count int64
	err := db.Model(&models.Reservation{}).
		Where("table_id = ? AND status = ? AND reserved_at BETWEEN ? AND ?",
			tableID, models.ReservationBooked, at.Add(-s.window), at.Add(s.window)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create books a table for the named customer, reusing the customer on file
// with the same name and phone.
func (s *ReservationService) Create(ctx context.Context, req ReservationRequest) (*models.Reservation, error) {
	name := strings.TrimSpace(req.CustomerName)
	phone := strings.TrimSpace(req.Phone)
	if name == "" || phone == "" {
		return nil, utils.Invalidf("customer name and phone are required")
	}
	if req.Email != nil && *req.Email != "" && !utils.ValidEmail(*req.Email) {
		return nil, utils.Invalidf("invalid email %q", *req.Email)
	}
	return s.book(ctx, req.TableID, req.ReservedAt, req.PartySize, func(tx *gorm.DB) (*models.Customer, error) {
		return findOrCreateCustomer(tx, name, phone, req.Email)
	})
}

// CreateForCustomer books on behalf of a registered customer. The booking is
// tied to that customer id even when other rows share its name and phone.
func (s *ReservationService) CreateForCustomer(ctx context.Context, customerID, tableID uint, at time.Time, partySize int) (*models.Reservation, error) {
	return s.book(ctx, tableID, at, partySize, func(tx *gorm.DB) (*models.Customer, error) {
		var customer models.Customer
		if err := tx.First(&customer, customerID).Error; err != nil {
			return nil, utils.DBError(err, "find customer")
		}
		return &customer, nil
	})
}

// book runs the conflict check, customer resolution and insert in one
// transaction holding a lock on the table row, so concurrent bookings of the
// same table are serialized.
func (s *ReservationService) book(ctx context.Context, tableID uint, reservedAt time.Time, partySize int,
	customerFor func(tx *gorm.DB) (*models.Customer, error)) (*models.Reservation, error) {
	if partySize < 1 {
		return nil, utils.Invalidf("party size must be at least 1")
	}
	if reservedAt.IsZero() {
		return nil, utils.Invalidf("reservation time is required")
	}
	at := normalizeSlot(reservedAt)

	var reservation models.Reservation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var table models.Table
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&table, tableID).Error; err != nil {
			return utils.DBError(err, "find table")
		}
		if partySize > table.Capacity {
			return utils.Invalidf("party of %d exceeds capacity %d of table %d", partySize, table.Capacity, table.ID)
		}

		conflict, err := s.hasConflict(tx, table.ID, at)
		if err != nil {
			return utils.DBError(err, "check availability")
		}
		if conflict {
			return utils.Conflictf("table %d is not available at %s", table.ID, at.Format("2006-01-02 15:04"))
		}

		customer, err := customerFor(tx)
		if err != nil {
			return err
		}

		reservation = models.Reservation{
			CustomerID: customer.ID,
			Customer:   *customer,
			TableID:    table.ID,
			ReservedAt: at,
			PartySize:  partySize,
			Status:     models.ReservationBooked,
		}
		if err := tx.Omit("Customer").Create(&reservation).Error; err != nil {
			return utils.DBError(err, "insert reservation")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(map[string]interface{}{
		"reservation_id": reservation.ID,
		"customer_id":    reservation.CustomerID,
		"table_id":       reservation.TableID,
		"reserved_at":    reservation.ReservedAt,
	}).Info("reservation booked")
	s.notifier.Notify(ctx, kds.EventReservationBooked, reservation)
	return &reservation, nil
}

// findOrCreateCustomer treats (name, phone) as the customer's identity. The
// lookup locks the matching idx_customer_lookup range, so on MySQL a
// concurrent first booking for the same person either waits for the other
// insert or is rolled back as a deadlock (reported as a conflict).
func findOrCreateCustomer(tx *gorm.DB, name, phone string, email *string) (*models.Customer, error) {
	var customer models.Customer
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("name = ? AND phone = ?", name, phone).Order("id").First(&customer).Error
	if err == nil {
		return &customer, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.DBError(err, "find customer")
	}

	customer = models.Customer{Name: name, Phone: phone}
	if email != nil && *email != "" {
		customer.Email = email
	}
	if err := tx.Create(&customer).Error; err != nil {
		return nil, utils.DBError(err, "create customer")
	}
	return &customer, nil
}

// Cancel deletes a reservation and frees its table unless an open order is
// seated there. Customers may only cancel their own bookings.
func (s *ReservationService) Cancel(ctx context.Context, id uint, by models.Session) (*models.Reservation, error) {
	var reservation models.Reservation
	var table models.Table
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&reservation, id).Error; err != nil {
			return utils.DBError(err, "find reservation")
		}
		if by.Role == models.RoleCustomer && reservation.CustomerID != by.SubjectID {
			return utils.Forbiddenf("reservation %d belongs to another customer", id)
		}

		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&table, reservation.TableID).Error; err != nil {
			return utils.DBError(err, "find table")
		}
		if err := tx.Delete(&reservation).Error; err != nil {
			return utils.DBError(err, "delete reservation")
		}
		if table.HasOpenOrder() {
			return nil
		}
		table.Status = models.TableAvailable
		if err := tx.Model(&table).Update("status", models.TableAvailable).Error; err != nil {
			return utils.DBError(err, "free table")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(map[string]interface{}{
		"reservation_id": reservation.ID,
		"table_id":       table.ID,
		"table_status":   table.Status,
	}).Info("reservation cancelled")
	s.notifier.Notify(ctx, kds.EventReservationCanceled, reservation)
	s.notifier.Notify(ctx, kds.EventTableUpdate, table)
	return &reservation, nil
}

// ListByDate returns the bookings whose time falls on the given UTC day.
func (s *ReservationService) ListByDate(ctx context.Context, day time.Time) ([]models.Reservation, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	var reservations []models.Reservation
	err := s.db.WithContext(ctx).Preload("Customer").
		Where("reserved_at >= ? AND reserved_at < ?", start, start.AddDate(0, 0, 1)).
		Order("reserved_at, table_id").
		Find(&reservations).Error
	if err != nil {
		return nil, utils.DBError(err, "list reservations")
	}
	return reservations, nil
}

func (s *ReservationService) ListUpcomingForCustomer(ctx context.Context, customerID uint) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := s.db.WithContext(ctx).
		Where("customer_id = ? AND reserved_at >= ?", customerID, normalizeSlot(s.now())).
		Order("reserved_at").
		Find(&reservations).Error
	if err != nil {
		return nil, utils.DBError(err, "list customer reservations")
	}
	return reservations, nil
}
