/*
handlers_test.go - API tests over an in-memory store

Tests for:
- Row round-trip through the store and the rows endpoint
- Statement endpoint math end to end
- Pending-edit staging visible in pivot reads
- Conflict endpoint flags
*/
package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian/rotation-engine/rotation"
	"github.com/meridian/rotation-engine/store/sqlite"
)

func newTestServer(t *testing.T) (*Handler, *httptest.Server) {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	h := NewHandler(store, rotation.DefaultRates())
	srv := httptest.NewServer(NewRouter(h))
	t.Cleanup(srv.Close)
	return h, srv
}

func seedRow(t *testing.T, h *Handler, r rotation.RotationRow) {
	t.Helper()
	require.NoError(t, h.Store.SaveRow(context.Background(), r))
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp
}

func baseRow(id, crewID, crewName string, cycle int, signOn, signOff string) rotation.RotationRow {
	return rotation.RotationRow{
		ID:          id,
		RosterID:    "roster-1",
		CrewID:      crewID,
		CrewName:    crewName,
		Trade:       rotation.TradeOffshore,
		Post:        "MEDIC",
		Location:    "PLATFORM-A",
		CycleNumber: cycle,
		SignOn:      signOn,
		SignOff:     signOff,
	}
}

func TestRowsEndpoint_RoundTrip(t *testing.T) {
	_, srv := newTestServer(t)

	// POST a row through the API
	dto := RotationRowDTO{
		ID:          "r1",
		CrewID:      "c-1",
		CrewName:    "JOHN DOE",
		Trade:       "offshore",
		CycleNumber: 1,
		SignOn:      "2024-03-10",
		SignOff:     "2024-03-20",
	}
	body, _ := json.Marshal(dto)
	resp, err := http.Post(srv.URL+"/api/rosters/roster-1/rows", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// GET it back
	var rows []RotationRowDTO
	getJSON(t, srv.URL+"/api/rosters/roster-1/rows", &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "JOHN DOE", rows[0].CrewName)
	assert.Equal(t, "2024-03-10", rows[0].SignOn)

	// Invalid cycle number is a 400
	bad := dto
	bad.ID = "r2"
	bad.CycleNumber = 99
	body, _ = json.Marshal(bad)
	resp, err = http.Post(srv.URL+"/api/rosters/roster-1/rows", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStatementEndpoint_EndToEnd(t *testing.T) {
	h, srv := newTestServer(t)

	r := baseRow("r1", "c-1", "CREW X", 1, "2024-03-10", "2024-03-20")
	reliefDays := 2
	r.ReliefDays = &reliefDays
	rate := decimal.NewFromInt(150)
	r.ReliefRate = &rate
	seedRow(t, h, r)

	var stmt StatementResponse
	resp := getJSON(t, srv.URL+"/api/rosters/roster-1/statement?year=2024&month=3", &stmt)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.Len(t, stmt.Rows, 1)
	x := stmt.Rows[0]
	assert.Equal(t, 10, x.OffshoreDays)
	assert.Equal(t, 2, x.ReliefDays)
	assert.InDelta(t, 300.0, x.ReliefAmount, 0.001)
	assert.InDelta(t, x.OffshoreTotal+300.0, x.GrandTotal, 0.001)
	assert.Equal(t, 1, stmt.Totals.CrewCount)

	// A month with no cycles returns an empty row set, not an error.
	var empty StatementResponse
	resp = getJSON(t, srv.URL+"/api/rosters/roster-1/statement?year=2024&month=7", &empty)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, empty.Rows)

	// Missing month is a 400.
	raw, err := http.Get(srv.URL + "/api/rosters/roster-1/statement?year=2024")
	require.NoError(t, err)
	raw.Body.Close()
	assert.Equal(t, http.StatusBadRequest, raw.StatusCode)
}

func TestConflictsEndpoint_FlagsDoubleBooking(t *testing.T) {
	h, srv := newTestServer(t)

	seedRow(t, h, baseRow("r1", "c-1", "JOHN DOE", 1, "2024-01-05", "2024-01-20"))
	seedRow(t, h, baseRow("r2", "c-2", "JANE ROE", 1, "2024-01-15", "2024-01-30"))

	var conflicts []ConflictDTO
	getJSON(t, srv.URL+"/api/rosters/roster-1/conflicts", &conflicts)

	require.Len(t, conflicts, 2)
	assert.Equal(t, "c-1", conflicts[0].CrewID)
	assert.Equal(t, []string{"JANE ROE"}, conflicts[0].OverlapsWith)
	assert.Equal(t, []string{"JOHN DOE"}, conflicts[1].OverlapsWith)
}

func TestPendingEdit_VisibleInPivotUntilSaved(t *testing.T) {
	h, srv := newTestServer(t)
	seedRow(t, h, baseRow("r1", "c-1", "JOHN DOE", 1, "2024-03-10", "2024-03-20"))

	// Stage a notes edit
	req := PendingEditRequest{CrewID: "c-1", CycleNumber: 1, Notes: strPtr("pending note")}
	body, _ := json.Marshal(req)
	httpReq, _ := http.NewRequest(http.MethodPut, srv.URL+"/api/rosters/roster-1/pending", bytes.NewReader(body))
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(httpReq)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Pivot read reflects the staged edit
	var pivot PivotResponse
	getJSON(t, srv.URL+"/api/rosters/roster-1/pivot", &pivot)
	require.Len(t, pivot.Crew, 1)
	assert.Equal(t, "pending note", pivot.Crew[0].Cycles[1].Notes)

	// Persisting the row discards the staged edit; storage wins
	saved := baseRow("r1", "c-1", "JOHN DOE", 1, "2024-03-10", "2024-03-20")
	saved.Notes = "persisted note"
	dto := toRowDTO(saved)
	body, _ = json.Marshal(dto)
	postResp, err := http.Post(srv.URL+"/api/rosters/roster-1/rows", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	postResp.Body.Close()
	require.Equal(t, http.StatusCreated, postResp.StatusCode)

	var after PivotResponse
	getJSON(t, srv.URL+"/api/rosters/roster-1/pivot", &after)
	require.Len(t, after.Crew, 1)
	assert.Equal(t, "persisted note", after.Crew[0].Cycles[1].Notes)
	assert.Equal(t, 0, h.Pending.Len())
}

func TestStore_NaturalKeyRejectsDuplicateCycle(t *testing.T) {
	h, srv := newTestServer(t)

	// A second storage row with the same (roster, crew, name, cycle) natural
	// key trips the unique index; duplicates can only reach the pivot through
	// data imported outside this store.
	a := baseRow("r1", "c-1", "JOHN DOE", 1, "2024-01-05", "2024-01-19")
	b := baseRow("r2", "c-1", "JOHN DOE", 1, "2024-03-05", "2024-03-19")
	require.NoError(t, h.Store.SaveRow(context.Background(), a))
	require.Error(t, h.Store.SaveRow(context.Background(), b))

	var pivot PivotResponse
	getJSON(t, srv.URL+"/api/rosters/roster-1/pivot", &pivot)
	assert.Empty(t, pivot.Warnings)
	require.Len(t, pivot.Crew, 1)
}

func strPtr(s string) *string { return &s }
