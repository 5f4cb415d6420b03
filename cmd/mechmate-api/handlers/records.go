package handlers

import (
	"net/http"
	"strconv"

	"github.com/Jeyavarman-2005/mechmate/internal/engine"
	"github.com/Jeyavarman-2005/mechmate/internal/observability"
	"github.com/Jeyavarman-2005/mechmate/internal/store"
)

// RecordsHandler serves the parsed maintenance log.
type RecordsHandler struct {
	logger   *observability.Logger
	snapshot *store.Snapshot
}

// NewRecordsHandler creates a new records handler.
func NewRecordsHandler(logger *observability.Logger, snapshot *store.Snapshot) *RecordsHandler {
	return &RecordsHandler{logger: logger, snapshot: snapshot}
}

// RecordDTO is one maintenance log row.
type RecordDTO struct {
	MachineID        string `json:"machineId"`
	MachineName      string `json:"machineName"`
	IssueDescription string `json:"issueDescription"`
	RootCause        string `json:"rootCause"`
	SolutionApplied  string `json:"solutionApplied"`
	TechnicianName   string `json:"technicianName"`
	DateOfRepair     string `json:"dateOfRepair"`
	TimeTakenHours   string `json:"timeTakenHours"`
	ProductionLoss   string `json:"productionLoss"`
	AdditionalNotes  string `json:"additionalNotes,omitempty"`
}

// RecordListDTO is the records listing response.
type RecordListDTO struct {
	Total   int         `json:"total"`
	Records []RecordDTO `json:"records"`
}

// List handles GET /v1/records. Optional query parameters: machine_id to
// filter and limit to cap the result.
func (h *RecordsHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.snapshot.Records(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Records fetch failed")
		writeError(w, http.StatusBadGateway, "store failure", "")
		return
	}

	rs := engine.RecordSet(records)
	if machineID := r.URL.Query().Get("machine_id"); machineID != "" {
		rs = rs.ForMachine(machineID, "")
	}

	limit := len(rs)
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 && n < limit {
			limit = n
		}
	}

	out := RecordListDTO{Total: len(rs), Records: make([]RecordDTO, 0, limit)}
	for _, rec := range rs[:limit] {
		out.Records = append(out.Records, RecordDTO{
			MachineID:        rec.MachineID,
			MachineName:      rec.MachineName,
			IssueDescription: rec.IssueDescription,
			RootCause:        rec.RootCause,
			SolutionApplied:  rec.SolutionApplied,
			TechnicianName:   rec.TechnicianName,
			DateOfRepair:     rec.RepairDateRaw,
			TimeTakenHours:   rec.TimeTakenRaw,
			ProductionLoss:   rec.ProductionLossRaw,
			AdditionalNotes:  rec.AdditionalNotes,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
