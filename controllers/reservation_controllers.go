package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-ops/models"
	"github.com/yeremiapane/restaurant-ops/services"
	"github.com/yeremiapane/restaurant-ops/utils"
)

type ReservationController struct {
	Reservations *services.ReservationService
}

func NewReservationController(reservations *services.ReservationService) *ReservationController {
	return &ReservationController{Reservations: reservations}
}

type reservationView struct {
	ID           uint   `json:"id"`
	CustomerID   uint   `json:"customer_id"`
	CustomerName string `json:"customer_name,omitempty"`
	TableID      uint   `json:"table_id"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	PartySize    int    `json:"party_size"`
	Status       string `json:"status"`
}

func viewReservation(r models.Reservation) reservationView {
	return reservationView{
		ID:           r.ID,
		CustomerID:   r.CustomerID,
		CustomerName: r.Customer.Name,
		TableID:      r.TableID,
		Date:         r.Date(),
		Time:         r.Time(),
		PartySize:    r.PartySize,
		Status:       r.Status,
	}
}

func viewReservations(rs []models.Reservation) []reservationView {
	views := make([]reservationView, 0, len(rs))
	for _, r := range rs {
		views = append(views, viewReservation(r))
	}
	return views
}

// GetReservations -> bookings for ?date=YYYY-MM-DD
func (rc *ReservationController) GetReservations(c *gin.Context) {
	day, err := parseDate(c.Query("date"), "date")
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	reservations, err := rc.Reservations.ListByDate(c.Request.Context(), day)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservations for "+day.Format(dateLayout), viewReservations(reservations))
}

// CreateReservation -> managers book for any customer; customers book for
// themselves and only send table, date, time and party size.
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var input struct {
		CustomerName string  `json:"customer_name"`
		Phone        string  `json:"phone"`
		Email        *string `json:"email"`
		TableID      uint    `json:"table_id" binding:"required"`
		Date         string  `json:"date" binding:"required"`
		Time         string  `json:"time" binding:"required"`
		PartySize    int     `json:"party_size" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	slot, err := parseSlot(input.Date, input.Time)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	ctx := c.Request.Context()
	session := mustSession(c)
	var reservation *models.Reservation
	if session.Role == models.RoleCustomer {
		reservation, err = rc.Reservations.CreateForCustomer(ctx, session.SubjectID, input.TableID, slot, input.PartySize)
	} else {
		reservation, err = rc.Reservations.Create(ctx, services.ReservationRequest{
			CustomerName: input.CustomerName,
			Phone:        input.Phone,
			Email:        input.Email,
			TableID:      input.TableID,
			ReservedAt:   slot,
			PartySize:    input.PartySize,
		})
	}
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Reservation confirmed", viewReservation(*reservation))
}

func (rc *ReservationController) CancelReservation(c *gin.Context) {
	id, err := paramID(c, "reservation_id")
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	reservation, err := rc.Reservations.Cancel(c.Request.Context(), id, mustSession(c))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation cancelled", gin.H{
		"reservation_id": reservation.ID,
		"table_id":       reservation.TableID,
	})
}

// CheckAvailability -> ?table_id=&date=&time=
func (rc *ReservationController) CheckAvailability(c *gin.Context) {
	tableID, err := strconv.ParseUint(c.Query("table_id"), 10, 32)
	if err != nil || tableID == 0 {
		utils.RespondServiceError(c, utils.Invalidf("table_id is required"))
		return
	}
	slot, err := parseSlot(c.Query("date"), c.Query("time"))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	available := rc.Reservations.IsTableAvailable(c.Request.Context(), uint(tableID), slot)
	utils.RespondJSON(c, http.StatusOK, "Availability", gin.H{
		"table_id":  tableID,
		"date":      slot.Format(dateLayout),
		"time":      slot.Format(timeLayout),
		"available": available,
	})
}

// GetMyReservations -> the customer's upcoming bookings
func (rc *ReservationController) GetMyReservations(c *gin.Context) {
	reservations, err := rc.Reservations.ListUpcomingForCustomer(c.Request.Context(), mustSession(c).SubjectID)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Upcoming reservations", viewReservations(reservations))
}
