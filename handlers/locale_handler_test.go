// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"locale-tracker/db"
	"locale-tracker/locale"
	"locale-tracker/telephony"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSetter struct {
	mu    sync.Mutex
	codes []string
}

func (s *recordingSetter) SetCountryCode(iso string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes = append(s.codes, iso)
	return nil
}

func setUpHistory(t *testing.T) {
	t.Setenv("DB_DIALECT", "sqlite")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "locale.db"))
	conn, _, err := db.Open()
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	db.DB = conn
	t.Cleanup(func() { db.DB = nil })
}

func newTestHandler(t *testing.T, phone *telephony.SimulatedPhone) (*LocaleHandler, *recordingSetter) {
	h, setter, _ := newHistoryTestHandler(t, phone)
	return h, setter
}

func newHistoryTestHandler(t *testing.T, phone *telephony.SimulatedPhone) (*LocaleHandler, *recordingSetter, *HistoryRecorder) {
	if phone == nil {
		phone = telephony.NewSimulatedPhone(0, nil)
	}
	setter := &recordingSetter{}
	history := NewHistoryRecorder(DefaultHistoryQueueSize)
	t.Cleanup(history.Close)
	tracker := locale.New(phone, setter, locale.WithListener(history.Listener()))
	tracker.Start()
	t.Cleanup(tracker.Stop)
	return NewLocaleHandler(tracker, phone), setter, history
}

func call(t *testing.T, handler echo.HandlerFunc, method, target, body string) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return rec, handler(e.NewContext(req, rec))
}

func httpStatus(t *testing.T, err error) int {
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	return httpErr.Code
}

func decodeLocale(t *testing.T, rec *httptest.ResponseRecorder) LocaleResponse {
	var resp LocaleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestUpdateOperatorNumericHandler(t *testing.T) {
	h, setter := newTestHandler(t, nil)

	rec, err := call(t, h.UpdateOperatorNumericHandler, http.MethodPut, "/v1/locale/operator-numeric", `{"numeric":"310260"}`)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	resp := decodeLocale(t, rec)
	assert.Equal(t, "us", resp.Country)
	assert.Equal(t, int32(1), resp.CallingCode)
	assert.Equal(t, "OPERATOR_NUMERIC", resp.Source)
	assert.Equal(t, "310260", resp.OperatorNumeric)
	assert.False(t, resp.Tracking)
	assert.Nil(t, resp.ServiceState)
	assert.Equal(t, []string{"us"}, setter.codes)

	rec, err = call(t, h.GetLocaleHandler, http.MethodGet, "/v1/locale", "")
	require.NoError(t, err)
	assert.Equal(t, "us", decodeLocale(t, rec).Country)
}

func TestUpdateOperatorNumericHandlerValidation(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	_, err := call(t, h.UpdateOperatorNumericHandler, http.MethodPut, "/v1/locale/operator-numeric", `{}`)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))

	_, err = call(t, h.UpdateOperatorNumericHandler, http.MethodPut, "/v1/locale/operator-numeric", `{"numeric":`)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))

	// An empty numeric is a valid report: the radio is not registered.
	rec, err := call(t, h.UpdateOperatorNumericHandler, http.MethodPut, "/v1/locale/operator-numeric", `{"numeric":""}`)
	require.NoError(t, err)
	assert.Equal(t, "", decodeLocale(t, rec).Country)
}

func TestNotifyServiceStateHandler(t *testing.T) {
	phone := telephony.NewSimulatedPhone(0, []telephony.CellInfo{telephony.NewGSMCell(234, 15, 0, 0)})
	h, _ := newTestHandler(t, phone)

	_, err := call(t, h.NotifyServiceStateHandler, http.MethodPost, "/v1/locale/service-state", `{"state":"DOZING"}`)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))

	rec, err := call(t, h.NotifyServiceStateHandler, http.MethodPost, "/v1/locale/service-state", `{"state":"out_of_service"}`)
	require.NoError(t, err)
	resp := decodeLocale(t, rec)
	assert.True(t, resp.Tracking)
	require.NotNil(t, resp.ServiceState)
	assert.Equal(t, "OUT_OF_SERVICE", *resp.ServiceState)

	assert.Eventually(t, func() bool {
		return h.Tracker.CurrentCountry() == "gb"
	}, time.Second, 10*time.Millisecond)
}

func TestNotifyCellInfoHandler(t *testing.T) {
	h, setter := newTestHandler(t, nil)

	_, err := call(t, h.NotifyCellInfoHandler, http.MethodPost, "/v1/locale/cell-info", `{"cells":[{"type":"AMPS","mcc":"310","mnc":"1"}]}`)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))

	body := `{"cells":[{"type":"lte","mcc":"440","mnc":"10","lac":7,"cid":42},{"mcc":"440","mnc":"20"},{"type":"CDMA","mcc":"310","mnc":"1"}]}`
	rec, err := call(t, h.NotifyCellInfoHandler, http.MethodPost, "/v1/locale/cell-info", body)
	require.NoError(t, err)
	resp := decodeLocale(t, rec)
	assert.Equal(t, "jp", resp.Country)
	assert.Equal(t, int32(81), resp.CallingCode)
	assert.Equal(t, 3, resp.CellCount)
	assert.Equal(t, []string{"jp"}, setter.codes)
}

func TestTrackerNotRunning(t *testing.T) {
	h, _ := newTestHandler(t, nil)
	h.Tracker.Stop()

	_, err := call(t, h.UpdateOperatorNumericHandler, http.MethodPut, "/v1/locale/operator-numeric", `{"numeric":"310260"}`)
	assert.Equal(t, http.StatusServiceUnavailable, httpStatus(t, err))
}

func TestSetRadioCellsHandler(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	rec, err := call(t, h.SetRadioCellsHandler, http.MethodPut, "/v1/radio/cells", `{"cells":[{"mcc":"208","mnc":"01"}]}`)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	cells, err := h.Phone.AllCellInfo(context.Background())
	require.NoError(t, err)
	require.Len(t, cells, 1)
	assert.Equal(t, "208", cells[0].MCC())

	h.Phone = nil
	_, err = call(t, h.SetRadioCellsHandler, http.MethodPut, "/v1/radio/cells", `{"cells":[]}`)
	assert.Equal(t, http.StatusNotFound, httpStatus(t, err))
}

func TestGetLocalLogHandler(t *testing.T) {
	h, _ := newTestHandler(t, nil)
	_, err := call(t, h.UpdateOperatorNumericHandler, http.MethodPut, "/v1/locale/operator-numeric", `{"numeric":"310260"}`)
	require.NoError(t, err)

	rec, err := call(t, h.GetLocalLogHandler, http.MethodGet, "/v1/locale/log", "")
	require.NoError(t, err)

	var resp LocalLogResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data)
}
