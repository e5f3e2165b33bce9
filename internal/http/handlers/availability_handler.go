// README: Availability handlers for single-technician and team slot searches.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/begoneskadedjur/kundportal-sub014/internal/modules/availability"
	"github.com/begoneskadedjur/kundportal-sub014/internal/types"
)

// Finder is implemented by availability.Service.
type Finder interface {
	FindSlots(ctx context.Context, q availability.SlotQuery) ([]availability.Suggestion, error)
	FindTeamSlots(ctx context.Context, q availability.TeamQuery) ([]availability.TeamSuggestion, error)
}

type AvailabilityHandler struct {
	finder Finder
}

func NewAvailabilityHandler(finder Finder) *AvailabilityHandler {
	return &AvailabilityHandler{finder: finder}
}

type jobReq struct {
	DestinationAddress string `json:"destination_address"`
	RequiredSkill      string `json:"required_skill"`
	DurationMinutes    int    `json:"duration_minutes"`
	SearchStartDate    string `json:"search_start_date"`
	SearchDays         int    `json:"search_days"`
}

type slotsReq struct {
	jobReq
	TechnicianIDs []string `json:"technician_ids"`
}

type teamSlotsReq struct {
	jobReq
	TeamSize int `json:"team_size"`
}

type slotsResp struct {
	Suggestions []availability.Suggestion `json:"suggestions"`
	Count       int                       `json:"count"`
}

type teamSlotsResp struct {
	Suggestions []availability.TeamSuggestion `json:"suggestions"`
	Count       int                           `json:"count"`
}

func (r jobReq) query() (availability.JobQuery, bool) {
	start, ok := parseDate(r.SearchStartDate)
	if !ok {
		return availability.JobQuery{}, false
	}
	return availability.JobQuery{
		DestinationAddress: r.DestinationAddress,
		RequiredSkill:      r.RequiredSkill,
		DurationMinutes:    r.DurationMinutes,
		SearchStartDate:    start,
		SearchDays:         r.SearchDays,
	}, true
}

func (h *AvailabilityHandler) Slots(c *gin.Context) {
	var req slotsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	job, ok := req.query()
	if !ok {
		writeError(c, http.StatusBadRequest, "search_start_date must be YYYY-MM-DD")
		return
	}
	ids := make([]types.ID, len(req.TechnicianIDs))
	for i, id := range req.TechnicianIDs {
		ids[i] = types.ID(id)
	}

	out, err := h.finder.FindSlots(c.Request.Context(), availability.SlotQuery{JobQuery: job, TechnicianIDs: ids})
	if err != nil {
		writeAvailabilityError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, slotsResp{Suggestions: out, Count: len(out)})
}

func (h *AvailabilityHandler) TeamSlots(c *gin.Context) {
	var req teamSlotsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	job, ok := req.query()
	if !ok {
		writeError(c, http.StatusBadRequest, "search_start_date must be YYYY-MM-DD")
		return
	}

	out, err := h.finder.FindTeamSlots(c.Request.Context(), availability.TeamQuery{JobQuery: job, TeamSize: req.TeamSize})
	if err != nil {
		writeAvailabilityError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, teamSlotsResp{Suggestions: out, Count: len(out)})
}
