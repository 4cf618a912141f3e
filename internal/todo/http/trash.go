package http

import (
	"net/http"

	"github.com/aussiebroadwan/taskboard/internal/todo/service"
	"github.com/aussiebroadwan/taskboard/pkg/httpx"
)

type TrashHandler struct {
	TrashService *service.TrashService
}

func (h *TrashHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	todos, err := h.TrashService.List(r.Context(), callerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, todos)
}

func (h *TrashHandler) HandleRestore(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, service.ErrTodoNotFound)
	if !ok {
		return
	}

	todo, err := h.TrashService.Restore(r.Context(), callerID(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, httpx.Envelope{Success: true, Data: todo, Message: "todo restored"})
}

// HandlePurge deletes a trashed todo for good.
func (h *TrashHandler) HandlePurge(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, service.ErrTodoNotFound)
	if !ok {
		return
	}

	if err := h.TrashService.Purge(r.Context(), callerID(r), id); err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteMessage(w, http.StatusOK, "todo permanently deleted")
}
