/*
handlers.go - HTTP API handlers for the rotation engine

PURPOSE:

	Exposes the rotation engine via REST. Handles HTTP request/response, JSON
	serialization, and delegates to the pure calculators in the rotation
	package.

REQUEST FLOW:
 1. Parse HTTP request
 2. Load rotation rows from the store
 3. Call engine logic (pivot, overlap, statement)
 4. Serialize response

ERROR HANDLING:

	Errors are returned as JSON with appropriate HTTP status:
	- 400: Validation errors, invalid input
	- 404: Row not found
	- 500: Storage failures
	The engine itself never errors; empty results mean "no data", not failure.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/meridian/rotation-engine/rotation"
	"github.com/meridian/rotation-engine/store/sqlite"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   *sqlite.Store
	Rates   rotation.Rates
	Pending *rotation.PendingEdits
}

// NewHandler creates a handler over the given store with the given policy
// rates.
func NewHandler(store *sqlite.Store, rates rotation.Rates) *Handler {
	return &Handler{
		Store:   store,
		Rates:   rates,
		Pending: rotation.NewPendingEdits(),
	}
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// ROW HANDLERS (CRUD passthrough for the UI)
// =============================================================================

// ListRows returns all rotation rows on a roster.
func (h *Handler) ListRows(w http.ResponseWriter, r *http.Request) {
	rosterID := chi.URLParam(r, "rosterID")

	rows, err := h.Store.ListRowsByRoster(r.Context(), rosterID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list rotation rows", err)
		return
	}

	dtos := make([]RotationRowDTO, len(rows))
	for i, row := range rows {
		dtos[i] = toRowDTO(row)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SaveRow upserts a rotation row.
func (h *Handler) SaveRow(w http.ResponseWriter, r *http.Request) {
	rosterID := chi.URLParam(r, "rosterID")

	var dto RotationRowDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	row := fromRowDTO(dto)
	row.RosterID = rosterID
	if row.ID == "" {
		writeError(w, http.StatusBadRequest, "Row id is required", nil)
		return
	}

	if err := h.Store.SaveRow(r.Context(), row); err != nil {
		if errors.Is(err, rotation.ErrInvalidCycleNumber) ||
			errors.Is(err, rotation.ErrTooManyMedevacDates) ||
			errors.Is(err, rotation.ErrMissingCrew) {
			writeError(w, http.StatusBadRequest, "Invalid rotation row", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to save rotation row", err)
		return
	}

	// A persisted write supersedes whatever was staged for this cycle.
	h.Pending.Discard(rotation.PendingKey{CrewID: row.CrewID, CycleNumber: row.CycleNumber})

	writeJSON(w, http.StatusCreated, toRowDTO(row))
}

// GetRow returns a single rotation row.
func (h *Handler) GetRow(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	row, err := h.Store.GetRow(r.Context(), id)
	if err != nil {
		if errors.Is(err, rotation.ErrRowNotFound) {
			writeError(w, http.StatusNotFound, "Rotation row not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get rotation row", err)
		return
	}

	writeJSON(w, http.StatusOK, toRowDTO(*row))
}

// DeleteRow removes a rotation row.
func (h *Handler) DeleteRow(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Store.DeleteRow(r.Context(), id); err != nil {
		if errors.Is(err, rotation.ErrRowNotFound) {
			writeError(w, http.StatusNotFound, "Rotation row not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete rotation row", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// =============================================================================
// ENGINE HANDLERS
// =============================================================================

// loadPivot builds the pivot for a roster with pending edits merged in.
func (h *Handler) loadPivot(r *http.Request, rosterID string) (map[rotation.CrewKey]*rotation.PivotedCrew, []rotation.Warning, error) {
	rows, err := h.Store.ListRowsByRoster(r.Context(), rosterID)
	if err != nil {
		return nil, nil, err
	}
	pivot, warnings := rotation.BuildPivot(rows)
	h.Pending.MergeInto(pivot)
	return pivot, warnings, nil
}

// GetPivot returns the pivoted cycle structure plus data-quality warnings.
// GET /api/rosters/{rosterID}/pivot
func (h *Handler) GetPivot(w http.ResponseWriter, r *http.Request) {
	rosterID := chi.URLParam(r, "rosterID")

	pivot, warnings, err := h.loadPivot(r, rosterID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build pivot", err)
		return
	}

	crew := make([]PivotedCrewDTO, 0, len(pivot))
	for _, p := range pivot {
		cycles := make(map[int]CycleDetailDTO, len(p.Cycles))
		for n, c := range p.Cycles {
			cycles[n] = toCycleDTO(c)
		}
		crew = append(crew, PivotedCrewDTO{
			CrewID:         p.CrewID,
			CrewName:       p.CrewName,
			Trade:          string(p.Trade),
			Post:           p.Post,
			Client:         p.Client,
			Location:       p.Location,
			ReliefSequence: p.ReliefSequence,
			ReliefKind:     string(p.ReliefKind),
			Cycles:         cycles,
		})
	}
	sort.Slice(crew, func(i, j int) bool {
		if crew[i].CrewName != crew[j].CrewName {
			return crew[i].CrewName < crew[j].CrewName
		}
		return crew[i].CrewID < crew[j].CrewID
	})

	warningDTOs := make([]WarningDTO, len(warnings))
	for i, wrn := range warnings {
		warningDTOs[i] = WarningDTO{
			CrewID:      wrn.CrewID,
			CrewName:    wrn.CrewName,
			CycleNumber: wrn.CycleNumber,
			Message:     wrn.Message,
		}
	}

	writeJSON(w, http.StatusOK, PivotResponse{Crew: crew, Warnings: warningDTOs})
}

// GetConflicts returns double-booking flags for a roster.
// GET /api/rosters/{rosterID}/conflicts
func (h *Handler) GetConflicts(w http.ResponseWriter, r *http.Request) {
	rosterID := chi.URLParam(r, "rosterID")

	pivot, _, err := h.loadPivot(r, rosterID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build pivot", err)
		return
	}

	flags := rotation.DetectOverlaps(pivot)
	dtos := make([]ConflictDTO, 0, len(flags))
	for ref, names := range flags {
		dtos = append(dtos, ConflictDTO{
			CrewID:       ref.CrewID,
			CycleNumber:  ref.CycleNumber,
			OverlapsWith: names,
		})
	}
	sort.Slice(dtos, func(i, j int) bool {
		if dtos[i].CrewID != dtos[j].CrewID {
			return dtos[i].CrewID < dtos[j].CrewID
		}
		return dtos[i].CycleNumber < dtos[j].CycleNumber
	})

	writeJSON(w, http.StatusOK, dtos)
}

// GetStatement returns the monthly allowance statement for a roster.
// GET /api/rosters/{rosterID}/statement?year=2024&month=3
func (h *Handler) GetStatement(w http.ResponseWriter, r *http.Request) {
	rosterID := chi.URLParam(r, "rosterID")

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 2000 || year > 2100 {
		writeError(w, http.StatusBadRequest, "Invalid or missing year", err)
		return
	}
	monthNum, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || monthNum < 1 || monthNum > 12 {
		writeError(w, http.StatusBadRequest, "Invalid or missing month", err)
		return
	}

	pivot, _, err := h.loadPivot(r, rosterID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build pivot", err)
		return
	}

	stmtRows, totals := rotation.BuildStatement(pivot, year, time.Month(monthNum), h.Rates)

	dtos := make([]StatementRowDTO, len(stmtRows))
	for i, row := range stmtRows {
		dtos[i] = toStatementRowDTO(row)
	}

	writeJSON(w, http.StatusOK, StatementResponse{
		Year:  year,
		Month: monthNum,
		Rows:  dtos,
		Totals: StatementTotalsDTO{
			CrewCount: totals.CrewCount,
			Offshore:  totals.Offshore.InexactFloat64(),
			Relief:    totals.Relief.InexactFloat64(),
			Standby:   totals.Standby.InexactFloat64(),
			Medevac:   totals.Medevac.InexactFloat64(),
			Grand:     totals.Grand.InexactFloat64(),
		},
	})
}

// =============================================================================
// PENDING EDIT HANDLERS
// =============================================================================

// StagePendingEdit stages an unsaved edit, visible in subsequent pivot reads
// until the row is persisted or the edit discarded.
// PUT /api/rosters/{rosterID}/pending
func (h *Handler) StagePendingEdit(w http.ResponseWriter, r *http.Request) {
	var req PendingEditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.CrewID == "" || req.CycleNumber < 1 || req.CycleNumber > rotation.MaxCycles {
		writeError(w, http.StatusBadRequest, "crew_id and a valid cycle_number are required", nil)
		return
	}

	h.Pending.Stage(
		rotation.PendingKey{CrewID: req.CrewID, CycleNumber: req.CycleNumber},
		rotation.PendingEdit{
			Notes:       req.Notes,
			ReliefRate:  floatPtrToDecimal(req.ReliefAll),
			StandbyRate: floatPtrToDecimal(req.StandbyAll),
			ReliefDays:  req.DayRelief,
			StandbyDays: req.DayStandby,
		},
	)

	writeJSON(w, http.StatusOK, map[string]any{"status": "staged", "pending": h.Pending.Len()})
}

// DiscardPending drops one staged edit (crew_id + cycle query params) or all
// of them when no key is given.
// DELETE /api/rosters/{rosterID}/pending?crew_id=...&cycle=...
func (h *Handler) DiscardPending(w http.ResponseWriter, r *http.Request) {
	crewID := r.URL.Query().Get("crew_id")
	cycleRaw := r.URL.Query().Get("cycle")

	if crewID == "" && cycleRaw == "" {
		h.Pending.Clear()
		writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
		return
	}

	cycle, err := strconv.Atoi(cycleRaw)
	if err != nil || crewID == "" {
		writeError(w, http.StatusBadRequest, "crew_id and cycle are required together", err)
		return
	}

	h.Pending.Discard(rotation.PendingKey{CrewID: crewID, CycleNumber: cycle})
	writeJSON(w, http.StatusOK, map[string]string{"status": "discarded"})
}

// =============================================================================
// CREW HANDLERS
// =============================================================================

// ListCrew returns all crew profiles.
func (h *Handler) ListCrew(w http.ResponseWriter, r *http.Request) {
	crew, err := h.Store.ListCrew(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list crew", err)
		return
	}
	writeJSON(w, http.StatusOK, crew)
}

// SaveCrew upserts a crew profile.
func (h *Handler) SaveCrew(w http.ResponseWriter, r *http.Request) {
	var c sqlite.CrewProfile
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if c.ID == "" || c.Name == "" {
		writeError(w, http.StatusBadRequest, "Crew id and name are required", nil)
		return
	}
	c.Trade = rotation.ParseTrade(string(c.Trade))

	if err := h.Store.SaveCrew(r.Context(), c); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save crew", err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
