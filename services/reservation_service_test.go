package services

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-ops/models"
	"github.com/yeremiapane/restaurant-ops/utils"
	"gorm.io/gorm"
)

func at(value string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", value)
	if err != nil {
		panic(err)
	}
	return t
}

func TestReservationWindowScenario(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewReservationService(db, 2*time.Hour, nil)
	for i := 0; i < 3; i++ {
		createTable(t, db, 4)
	}

	first, err := svc.Create(ctx, ReservationRequest{
		CustomerName: "Asha", Phone: "9000000001", TableID: 3,
		ReservedAt: at("2025-06-01 19:00"), PartySize: 2,
	})
	require.NoError(t, err)
	assert.NotZero(t, first.ID)
	assert.Equal(t, models.ReservationBooked, first.Status)
	assert.Equal(t, "2025-06-01", first.Date())
	assert.Equal(t, "19:00", first.Time())

	_, err = svc.Create(ctx, ReservationRequest{
		CustomerName: "Ravi", Phone: "9000000002", TableID: 3,
		ReservedAt: at("2025-06-01 20:30"), PartySize: 2,
	})
	require.Error(t, err)
	assertCategory(t, err, utils.ErrConflict)

	late, err := svc.Create(ctx, ReservationRequest{
		CustomerName: "Ravi", Phone: "9000000002", TableID: 3,
		ReservedAt: at("2025-06-01 23:30"), PartySize: 2,
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, late.ID)

	var count int64
	require.NoError(t, db.Model(&models.Reservation{}).Where("table_id = ?", 3).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestReservationWindowBoundaryIsInclusive(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewReservationService(db, 2*time.Hour, nil)
	table := createTable(t, db, 4)

	_, err := svc.Create(ctx, ReservationRequest{
		CustomerName: "Asha", Phone: "1", TableID: table.ID,
		ReservedAt: at("2025-06-01 18:00"), PartySize: 2,
	})
	require.NoError(t, err)

	assert.False(t, svc.IsTableAvailable(ctx, table.ID, at("2025-06-01 20:00")))
	assert.False(t, svc.IsTableAvailable(ctx, table.ID, at("2025-06-01 16:00")))
	assert.True(t, svc.IsTableAvailable(ctx, table.ID, at("2025-06-01 20:01")))
	assert.True(t, svc.IsTableAvailable(ctx, table.ID, at("2025-06-01 15:59")))
}

func TestReservationConflictAcrossMidnight(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewReservationService(db, 2*time.Hour, nil)
	table := createTable(t, db, 4)

	_, err := svc.Create(ctx, ReservationRequest{
		CustomerName: "Asha", Phone: "1", TableID: table.ID,
		ReservedAt: at("2025-06-01 23:30"), PartySize: 2,
	})
	require.NoError(t, err)

	assert.False(t, svc.IsTableAvailable(ctx, table.ID, at("2025-06-02 00:30")))
	_, err = svc.Create(ctx, ReservationRequest{
		CustomerName: "Ravi", Phone: "2", TableID: table.ID,
		ReservedAt: at("2025-06-02 00:30"), PartySize: 2,
	})
	assertCategory(t, err, utils.ErrConflict)
}

func TestReservationOtherTableUnaffected(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewReservationService(db, 2*time.Hour, nil)
	first := createTable(t, db, 4)
	second := createTable(t, db, 4)

	_, err := svc.Create(ctx, ReservationRequest{
		CustomerName: "Asha", Phone: "1", TableID: first.ID,
		ReservedAt: at("2025-06-01 19:00"), PartySize: 2,
	})
	require.NoError(t, err)
	assert.True(t, svc.IsTableAvailable(ctx, second.ID, at("2025-06-01 19:00")))
}

func TestReservationReusesCustomer(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewReservationService(db, 2*time.Hour, nil)
	table := createTable(t, db, 4)

	first, err := svc.Create(ctx, ReservationRequest{
		CustomerName: "Asha", Phone: "9000000001", TableID: table.ID,
		ReservedAt: at("2025-06-01 12:00"), PartySize: 2,
	})
	require.NoError(t, err)
	second, err := svc.Create(ctx, ReservationRequest{
		CustomerName: "Asha", Phone: "9000000001", TableID: table.ID,
		ReservedAt: at("2025-06-01 19:00"), PartySize: 3,
	})
	require.NoError(t, err)

	assert.Equal(t, first.CustomerID, second.CustomerID)
	var customers int64
	require.NoError(t, db.Model(&models.Customer{}).Count(&customers).Error)
	assert.Equal(t, int64(1), customers)
}

func TestReservationValidation(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewReservationService(db, 2*time.Hour, nil)
	table := createTable(t, db, 2)
	bad := "not-an-email"

	tests := []struct {
		name string
		req  ReservationRequest
		want error
	}{
		{"missing name", ReservationRequest{Phone: "1", TableID: table.ID, ReservedAt: at("2025-06-01 19:00"), PartySize: 1}, utils.ErrInvalid},
		{"zero party", ReservationRequest{CustomerName: "A", Phone: "1", TableID: table.ID, ReservedAt: at("2025-06-01 19:00")}, utils.ErrInvalid},
		{"over capacity", ReservationRequest{CustomerName: "A", Phone: "1", TableID: table.ID, ReservedAt: at("2025-06-01 19:00"), PartySize: 3}, utils.ErrInvalid},
		{"bad email", ReservationRequest{CustomerName: "A", Phone: "1", Email: &bad, TableID: table.ID, ReservedAt: at("2025-06-01 19:00"), PartySize: 1}, utils.ErrInvalid},
		{"unknown table", ReservationRequest{CustomerName: "A", Phone: "1", TableID: 99, ReservedAt: at("2025-06-01 19:00"), PartySize: 1}, utils.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Create(ctx, tt.req)
			assert.Nil(t, res)
			assertCategory(t, err, tt.want)
		})
	}

	var count int64
	require.NoError(t, db.Model(&models.Reservation{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestConcurrentBookingsOnlyOneSucceeds(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewReservationService(db, 2*time.Hour, nil)
	table := createTable(t, db, 4)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(ctx, ReservationRequest{
				CustomerName: "Guest", Phone: "555",
				TableID:      table.ID,
				ReservedAt:   at("2025-06-01 19:00").Add(time.Duration(i) * 10 * time.Minute),
				PartySize:    2,
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assertCategory(t, err, utils.ErrConflict)
	}
	assert.Equal(t, 1, succeeded)

	var count int64
	require.NoError(t, db.Model(&models.Reservation{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCancelReservationFreesTable(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc := NewReservationService(db, 2*time.Hour, NewNotifier(nil, pub))
	table := createTable(t, db, 4)
	require.NoError(t, db.Model(&table).Update("status", models.TableOccupied).Error)

	res, err := svc.Create(ctx, ReservationRequest{
		CustomerName: "Asha", Phone: "1", TableID: table.ID,
		ReservedAt: at("2025-06-01 19:00"), PartySize: 2,
	})
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, res.ID, models.Session{Role: models.RoleManager})
	require.NoError(t, err)

	var reloaded models.Table
	require.NoError(t, db.First(&reloaded, table.ID).Error)
	assert.Equal(t, models.TableAvailable, reloaded.Status)

	err = db.First(&models.Reservation{}, res.ID).Error
	assert.Error(t, err)
	assert.True(t, svc.IsTableAvailable(ctx, table.ID, at("2025-06-01 19:00")))
	assert.Equal(t, []string{"reservation.booked", "reservation.cancelled", "table.updated"}, pub.keys())
}

func TestCancelReservationKeepsTableWithOpenOrder(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewReservationService(db, 2*time.Hour, nil)
	orders := NewOrderService(db, nil)
	table := createTable(t, db, 4)
	dish := createMenuItem(t, db, "Paneer Tikka", "250.00", "Appetizers")

	res, err := svc.Create(ctx, ReservationRequest{
		CustomerName: "Asha", Phone: "1", TableID: table.ID,
		ReservedAt: at("2025-06-01 19:00"), PartySize: 2,
	})
	require.NoError(t, err)
	order, err := orders.PlaceOrder(ctx, table.ID, nil, []OrderLine{{MenuItemID: dish.ID, Quantity: 1}})
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, res.ID, models.Session{Role: models.RoleManager})
	require.NoError(t, err)

	var reloaded models.Table
	require.NoError(t, db.First(&reloaded, table.ID).Error)
	assert.Equal(t, models.TableOccupied, reloaded.Status)
	require.NotNil(t, reloaded.CurrentOrderID)
	assert.Equal(t, order.ID, *reloaded.CurrentOrderID)
}

func TestCancelReservationNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReservationService(db, 2*time.Hour, nil)

	_, err := svc.Cancel(context.Background(), 42, models.Session{Role: models.RoleManager})
	assertCategory(t, err, utils.ErrNotFound)
}

func TestCustomerCanOnlyCancelOwnReservation(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewReservationService(db, 2*time.Hour, nil)
	table := createTable(t, db, 4)

	res, err := svc.Create(ctx, ReservationRequest{
		CustomerName: "Asha", Phone: "1", TableID: table.ID,
		ReservedAt: at("2025-06-01 19:00"), PartySize: 2,
	})
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, res.ID, models.Session{SubjectID: res.CustomerID + 1, Role: models.RoleCustomer})
	assertCategory(t, err, utils.ErrForbidden)

	_, err = svc.Cancel(ctx, res.ID, models.Session{SubjectID: res.CustomerID, Role: models.RoleCustomer})
	assert.NoError(t, err)
}

func TestListReservations(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewReservationService(db, 2*time.Hour, nil)
	svc.now = func() time.Time { return at("2025-06-01 12:00") }
	table := createTable(t, db, 4)

	customer := models.Customer{Name: "Asha", Phone: "1"}
	require.NoError(t, db.Create(&customer).Error)

	_, err := svc.CreateForCustomer(ctx, customer.ID, table.ID, at("2025-05-31 19:00"), 2)
	require.NoError(t, err)
	_, err = svc.CreateForCustomer(ctx, customer.ID, table.ID, at("2025-06-01 19:00"), 2)
	require.NoError(t, err)
	_, err = svc.Create(ctx, ReservationRequest{
		CustomerName: "Ravi", Phone: "2", TableID: table.ID,
		ReservedAt: at("2025-06-01 22:00"), PartySize: 2,
	})
	require.NoError(t, err)

	day, err := svc.ListByDate(ctx, at("2025-06-01 00:00"))
	require.NoError(t, err)
	require.Len(t, day, 2)
	assert.Equal(t, "Asha", day[0].Customer.Name)
	assert.Equal(t, "Ravi", day[1].Customer.Name)

	upcoming, err := svc.ListUpcomingForCustomer(ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "19:00", upcoming[0].Time())
}

func TestCustomerBookingUsesSessionCustomer(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewReservationService(db, 2*time.Hour, nil)
	svc.now = func() time.Time { return at("2025-06-01 12:00") }
	table := createTable(t, db, 4)

	// (name, phone) is not unique, so two rows can share it.
	first := models.Customer{Name: "Asha", Phone: "1"}
	second := models.Customer{Name: "Asha", Phone: "1"}
	require.NoError(t, db.Create(&first).Error)
	require.NoError(t, db.Create(&second).Error)

	res, err := svc.CreateForCustomer(ctx, second.ID, table.ID, at("2025-06-01 19:00"), 2)
	require.NoError(t, err)
	assert.Equal(t, second.ID, res.CustomerID)
	assert.Equal(t, second.ID, res.Customer.ID)

	upcoming, err := svc.ListUpcomingForCustomer(ctx, second.ID)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, res.ID, upcoming[0].ID)

	_, err = svc.Cancel(ctx, res.ID, models.Session{SubjectID: second.ID, Role: models.RoleCustomer})
	assert.NoError(t, err)
}

func TestCustomerBookingUnknownCustomer(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReservationService(db, 2*time.Hour, nil)
	table := createTable(t, db, 4)

	res, err := svc.CreateForCustomer(context.Background(), 99, table.ID, at("2025-06-01 19:00"), 2)
	assert.Nil(t, res)
	assertCategory(t, err, utils.ErrNotFound)
}

func TestAvailabilityIsFalseWhenLookupFails(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewReservationService(db, 2*time.Hour, nil)
	table := createTable(t, db, 4)

	require.True(t, svc.IsTableAvailable(ctx, table.ID, at("2025-06-01 19:00")))
	require.NoError(t, db.Migrator().DropTable(&models.Reservation{}))
	assert.False(t, svc.IsTableAvailable(ctx, table.ID, at("2025-06-01 19:00")))
}

func TestCreateFailsWhenConflictCheckErrors(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewReservationService(db, 2*time.Hour, nil)
	table := createTable(t, db, 4)

	failReads := true
	err := db.Callback().Query().Before("gorm:query").Register("test:fail_reservation_reads", func(tx *gorm.DB) {
		if failReads && tx.Statement.Table == "reservations" {
			_ = tx.AddError(errors.New("disk I/O error"))
		}
	})
	require.NoError(t, err)

	assert.False(t, svc.IsTableAvailable(ctx, table.ID, at("2025-06-01 19:00")))

	res, err := svc.Create(ctx, ReservationRequest{
		CustomerName: "Asha", Phone: "1", TableID: table.ID,
		ReservedAt: at("2025-06-01 19:00"), PartySize: 2,
	})
	assert.Nil(t, res)
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, utils.StatusFor(err))

	failReads = false
	var reservations, customers int64
	require.NoError(t, db.Model(&models.Reservation{}).Count(&reservations).Error)
	require.NoError(t, db.Model(&models.Customer{}).Count(&customers).Error)
	assert.Zero(t, reservations)
	assert.Zero(t, customers)
}
