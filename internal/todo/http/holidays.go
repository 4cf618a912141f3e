package http

import (
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/taskboard/internal/todo/domain"
	"github.com/aussiebroadwan/taskboard/internal/todo/service"
	"github.com/aussiebroadwan/taskboard/pkg/httpx"
	"github.com/aussiebroadwan/taskboard/pkg/todosdk"
)

// HolidayHandler serves the shared holiday calendar. Reads are public,
// writes are admin only.
type HolidayHandler struct {
	HolidayService *service.HolidayService
}

func (h *HolidayHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	var year *int
	if v := r.URL.Query().Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1 || y > 9999 {
			writeError(w, r, badField("year", "must be a four digit year"))
			return
		}
		year = &y
	}

	holidays, err := h.HolidayService.List(r.Context(), year)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, holidays)
}

func (h *HolidayHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, service.ErrHolidayNotFound)
	if !ok {
		return
	}

	holiday, err := h.HolidayService.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, holiday)
}

func (h *HolidayHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req todosdk.CreateHolidayRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	holiday, err := h.HolidayService.Create(r.Context(), domain.CreateHolidayInput{
		Title:       req.Title,
		Date:        req.Date,
		Description: req.Description,
		IsRecurring: req.IsRecurring,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusCreated, holiday)
}

func (h *HolidayHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, service.ErrHolidayNotFound)
	if !ok {
		return
	}

	var req todosdk.UpdateHolidayRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	holiday, err := h.HolidayService.Update(r.Context(), id, domain.HolidayPatch{
		Title:       req.Title,
		Date:        req.Date,
		Description: req.Description,
		IsRecurring: req.IsRecurring,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, holiday)
}

func (h *HolidayHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, service.ErrHolidayNotFound)
	if !ok {
		return
	}

	if err := h.HolidayService.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteMessage(w, http.StatusOK, "holiday deleted")
}
