// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"fmt"
	"locale-tracker/commons"
	"locale-tracker/db"
	"locale-tracker/locale"
	"locale-tracker/models"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// RecordLocaleEvent stores event in the history table. It is a no-op when
// no database is configured.
func RecordLocaleEvent(event models.LocaleEvent) error {
	if db.DB == nil {
		return nil
	}
	if err := db.DB.Create(&event).Error; err != nil {
		return fmt.Errorf("failed to create locale event: %w", err)
	}
	return nil
}

func LogLocaleInput(category models.EventCategory, phoneID int, value string, previous *string) {
	err := RecordLocaleEvent(models.LocaleEvent{
		Category: category,
		PhoneID:  phoneID,
		Value:    value,
		Previous: previous,
	})
	if err != nil {
		commons.Logger.Errorf("Failed to record %s event: %v", category, err)
	}
}

func recordCountryChange(change locale.CountryChange) {
	previous := change.Previous
	source := string(change.Source)
	err := RecordLocaleEvent(models.LocaleEvent{
		Category:  models.CountryCategory,
		PhoneID:   change.PhoneID,
		Value:     change.Current,
		Previous:  &previous,
		Source:    &source,
		CreatedAt: change.ChangedAt,
	})
	if err != nil {
		commons.Logger.Errorf("Failed to record country change: %v", err)
	}
}

// GetLocaleEventsHandler godoc
// @Summary      Get locale history
// @Description  Retrieves the recorded operator, service state, cell info and country events, newest first.
// @Tags         locale
// @Produce      json
// @Param        page      query  int     false  "Page number (default 1)"
// @Param        page_size query  int     false  "Page size (default 10, max 100)"
// @Param        category  query  string  false  "Filter by category (OPERATOR, SERVICE_STATE, CELL_INFO, COUNTRY)"
// @Success      200 {object} LocaleEventListResponse "Paginated list of locale events"
// @Failure      503 {object} echo.HTTPError "History is not enabled"
// @Failure      500 {object} echo.HTTPError "Internal server error"
// @Router       /v1/locale/events [get]
func GetLocaleEventsHandler(c echo.Context) error {
	logger := c.Logger()

	if db.DB == nil {
		return &echo.HTTPError{
			Code:    http.StatusServiceUnavailable,
			Message: "Locale history is not enabled",
		}
	}

	page := 1
	pageSize := 10
	if p := c.QueryParam("page"); p != "" {
		if _, err := fmt.Sscanf(p, "%d", &page); err != nil || page < 1 {
			page = 1
		}
	}
	if ps := c.QueryParam("page_size"); ps != "" {
		if _, err := fmt.Sscanf(ps, "%d", &pageSize); err != nil || pageSize < 1 {
			pageSize = 10
		}
	}
	if pageSize > 100 {
		pageSize = 100
	}

	query := db.DB.Model(&models.LocaleEvent{})
	if category := c.QueryParam("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Errorf("Failed to count locale events: %v", err)
		return echo.ErrInternalServerError
	}

	offset := (page - 1) * pageSize
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	var events []models.LocaleEvent
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&events).Error; err != nil {
		logger.Errorf("Failed to fetch locale events: %v", err)
		return echo.ErrInternalServerError
	}

	eventDetails := make([]LocaleEventDetails, 0, len(events))
	for _, event := range events {
		eventDetails = append(eventDetails, LocaleEventDetails{
			EID:       event.EID.String(),
			Category:  string(event.Category),
			PhoneID:   event.PhoneID,
			Value:     event.Value,
			Previous:  event.Previous,
			Source:    event.Source,
			CreatedAt: event.CreatedAt.Format(time.RFC3339),
		})
	}

	return c.JSON(http.StatusOK, LocaleEventListResponse{
		Data: eventDetails,
		Pagination: PaginationDetails{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
		},
		Message: "Locale events retrieved successfully",
	})
}
