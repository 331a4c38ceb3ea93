// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"errors"
	"fmt"
	"locale-tracker/locale"
	"locale-tracker/models"
	"locale-tracker/notifications"
	"locale-tracker/telephony"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

type LocaleHandler struct {
	Tracker *locale.Tracker
	// Phone is set when the radio is simulated and its scan result can be
	// replaced through the API.
	Phone *telephony.SimulatedPhone
}

func NewLocaleHandler(tracker *locale.Tracker, phone *telephony.SimulatedPhone) *LocaleHandler {
	return &LocaleHandler{Tracker: tracker, Phone: phone}
}

func (h *LocaleHandler) localeResponse(message string) LocaleResponse {
	snap := h.Tracker.Snapshot()
	resp := LocaleResponse{
		PhoneID:         snap.PhoneID,
		Country:         snap.CurrentCountry,
		CallingCode:     notifications.CallingCode(snap.CurrentCountry),
		Source:          string(snap.CountrySource),
		Tracking:        snap.Tracking,
		OperatorNumeric: snap.OperatorNumeric,
		CellCount:       snap.CellCount,
		FailCount:       snap.FailCount,
		UpdatedAt:       snap.UpdatedAt.Format(time.RFC3339),
		Message:         message,
	}
	if snap.ServiceStateKnown {
		state := snap.ServiceState.String()
		resp.ServiceState = &state
	}
	return resp
}

func trackerError(c echo.Context, err error) error {
	c.Logger().Error("Tracker rejected event: ", err)
	if errors.Is(err, locale.ErrStopped) || errors.Is(err, locale.ErrNotStarted) {
		return &echo.HTTPError{
			Code:    http.StatusServiceUnavailable,
			Message: "Locale tracker is not running",
		}
	}
	return &echo.HTTPError{
		Code:    http.StatusGatewayTimeout,
		Message: "Locale tracker did not process the event in time",
	}
}

func parseCells(reqs []CellRequest) ([]telephony.CellInfo, error) {
	cells := make([]telephony.CellInfo, 0, len(reqs))
	for i, r := range reqs {
		cellType, err := telephony.ParseCellType(r.Type)
		if err != nil {
			return nil, fmt.Errorf("cells[%d]: %w", i, err)
		}
		cells = append(cells, telephony.CellInfo{
			Type:       cellType,
			Registered: r.Registered,
			Identity: telephony.CellIdentity{
				MCC:      r.MCC,
				MNC:      r.MNC,
				AreaCode: r.LAC,
				CID:      r.CID,
			},
		})
	}
	return cells, nil
}

func describeCells(cells []telephony.CellInfo) string {
	parts := make([]string, 0, len(cells))
	for _, cell := range cells {
		parts = append(parts, fmt.Sprintf("%s:%s-%s", cell.Type, cell.Identity.MCC, cell.Identity.MNC))
	}
	return strings.Join(parts, ",")
}

// GetLocaleHandler godoc
// @Summary      Get current locale
// @Description  Returns the country the tracker currently derives, together with the inputs it was derived from.
// @Tags         locale
// @Produce      json
// @Success      200 {object} LocaleResponse "Current locale"
// @Router       /v1/locale [get]
func (h *LocaleHandler) GetLocaleHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, h.localeResponse("Locale retrieved successfully"))
}

// GetLocalLogHandler godoc
// @Summary      Get tracker log
// @Description  Returns the most recent tracker decisions, oldest first.
// @Tags         locale
// @Produce      json
// @Success      200 {object} LocalLogResponse "Tracker log"
// @Router       /v1/locale/log [get]
func (h *LocaleHandler) GetLocalLogHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, LocalLogResponse{
		Data:    h.Tracker.LocalLog(),
		Message: "Local log retrieved successfully",
	})
}

// UpdateOperatorNumericHandler godoc
// @Summary      Update operator numeric
// @Description  Reports the MCC+MNC of the registered operator. An empty string means the radio is not registered.
// @Tags         locale
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Authorization  header  string  false  "Bearer {token}"
// @Param        payload  body  OperatorNumericRequest  true  "Operator numeric"
// @Success      200 {object} LocaleResponse "Locale after the update"
// @Failure      400 {object} echo.HTTPError "Bad Request"
// @Failure      401 {object} echo.HTTPError "Unauthorized"
// @Failure      503 {object} echo.HTTPError "Tracker not running"
// @Router       /v1/locale/operator-numeric [put]
func (h *LocaleHandler) UpdateOperatorNumericHandler(c echo.Context) error {
	logger := c.Logger()

	var req OperatorNumericRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request: ", err)
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "Invalid request payload",
		}
	}
	if req.Numeric == nil {
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "numeric is required",
		}
	}
	numeric := strings.TrimSpace(*req.Numeric)

	previous := h.Tracker.OperatorNumeric()
	if err := h.Tracker.UpdateOperatorNumeric(c.Request().Context(), numeric); err != nil {
		return trackerError(c, err)
	}
	LogLocaleInput(models.OperatorCategory, h.Tracker.PhoneID(), numeric, &previous)

	return c.JSON(http.StatusOK, h.localeResponse("Operator numeric updated successfully"))
}

// NotifyServiceStateHandler godoc
// @Summary      Report service state
// @Description  Reports a new radio service state.
// @Tags         locale
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Authorization  header  string  false  "Bearer {token}"
// @Param        payload  body  ServiceStateRequest  true  "Service state"
// @Success      200 {object} LocaleResponse "Locale after the update"
// @Failure      400 {object} echo.HTTPError "Bad Request"
// @Failure      401 {object} echo.HTTPError "Unauthorized"
// @Failure      503 {object} echo.HTTPError "Tracker not running"
// @Router       /v1/locale/service-state [post]
func (h *LocaleHandler) NotifyServiceStateHandler(c echo.Context) error {
	logger := c.Logger()

	var req ServiceStateRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request: ", err)
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "Invalid request payload",
		}
	}
	state, err := telephony.ParseServiceState(req.State)
	if err != nil {
		logger.Error("Invalid service state: ", err)
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "state must be one of IN_SERVICE, OUT_OF_SERVICE, EMERGENCY_ONLY, POWER_OFF",
		}
	}

	var previous *string
	if prev, known := h.Tracker.ServiceState(); known {
		s := prev.String()
		previous = &s
	}
	if err := h.Tracker.NotifyServiceState(c.Request().Context(), state); err != nil {
		return trackerError(c, err)
	}
	LogLocaleInput(models.ServiceStateCategory, h.Tracker.PhoneID(), state.String(), previous)

	return c.JSON(http.StatusOK, h.localeResponse("Service state updated successfully"))
}

// NotifyCellInfoHandler godoc
// @Summary      Report cell info
// @Description  Injects an unsolicited cell info report. Ignored by the tracker while the radio is powered off.
// @Tags         locale
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Authorization  header  string  false  "Bearer {token}"
// @Param        payload  body  CellInfoRequest  true  "Visible cells"
// @Success      200 {object} LocaleResponse "Locale after the update"
// @Failure      400 {object} echo.HTTPError "Bad Request"
// @Failure      401 {object} echo.HTTPError "Unauthorized"
// @Failure      503 {object} echo.HTTPError "Tracker not running"
// @Router       /v1/locale/cell-info [post]
func (h *LocaleHandler) NotifyCellInfoHandler(c echo.Context) error {
	logger := c.Logger()

	var req CellInfoRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request: ", err)
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "Invalid request payload",
		}
	}
	cells, err := parseCells(req.Cells)
	if err != nil {
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		}
	}

	if err := h.Tracker.NotifyCellInfo(c.Request().Context(), cells); err != nil {
		return trackerError(c, err)
	}
	LogLocaleInput(models.CellInfoCategory, h.Tracker.PhoneID(), describeCells(cells), nil)

	return c.JSON(http.StatusOK, h.localeResponse("Cell info reported successfully"))
}

// SetRadioCellsHandler godoc
// @Summary      Set simulated radio cells
// @Description  Replaces the cells the simulated radio returns on the next scan. Does not notify the tracker.
// @Tags         radio
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Authorization  header  string  false  "Bearer {token}"
// @Param        payload  body  CellInfoRequest  true  "Cells to return from scans"
// @Success      204 "Cells updated"
// @Failure      400 {object} echo.HTTPError "Bad Request"
// @Failure      401 {object} echo.HTTPError "Unauthorized"
// @Failure      404 {object} echo.HTTPError "Radio is not simulated"
// @Router       /v1/radio/cells [put]
func (h *LocaleHandler) SetRadioCellsHandler(c echo.Context) error {
	logger := c.Logger()

	if h.Phone == nil {
		return &echo.HTTPError{
			Code:    http.StatusNotFound,
			Message: "Radio is not simulated",
		}
	}

	var req CellInfoRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request: ", err)
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "Invalid request payload",
		}
	}
	cells, err := parseCells(req.Cells)
	if err != nil {
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		}
	}

	h.Phone.SetCells(cells)
	logger.Infof("Simulated radio cells set to [%s]", describeCells(cells))
	return c.NoContent(http.StatusNoContent)
}
