package controllers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-ops/middlewares"
	"github.com/yeremiapane/restaurant-ops/models"
	"github.com/yeremiapane/restaurant-ops/utils"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

func paramID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, utils.Invalidf("invalid %s %q", name, c.Param(name))
	}
	return uint(id), nil
}

func parseDate(value, field string) (time.Time, error) {
	d, err := time.ParseInLocation(dateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, utils.Invalidf("%s must be formatted as YYYY-MM-DD", field)
	}
	return d, nil
}

// parseSlot combines the separate date and time fields used by the booking
// screens into one UTC timestamp.
func parseSlot(date, clock string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout+" "+timeLayout, date+" "+clock, time.UTC)
	if err != nil {
		return time.Time{}, utils.Invalidf("date and time must be formatted as YYYY-MM-DD and HH:MM")
	}
	return t, nil
}

func mustSession(c *gin.Context) models.Session {
	session, _ := middlewares.CurrentSession(c)
	return session
}
