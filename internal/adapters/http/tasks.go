package httpadapter

import (
	"net/http"
	"strings"

	"github.com/xichaow/document-classification/internal/core/domain"
)

func (rt *Router) listTasks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	tasks, err := rt.tasks.ListTasks(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	summary := make(map[domain.TaskStatus]int)
	for _, task := range tasks {
		summary[task.Status]++
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"tasks":         tasks,
		"total":         len(tasks),
		"status_counts": summary,
	})
}

// cancelTask marks a queued task failed before a worker picks it up. The
// worker skips terminal tasks, so a cancelled task is never processed.
func (rt *Router) cancelTask(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/tasks/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "task id is required"})
		return
	}

	task, err := rt.tasks.GetTask(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if task.Status != domain.StatusQueued {
		writeJSON(w, http.StatusConflict, map[string]string{
			"error": "only queued tasks can be cancelled",
		})
		return
	}

	if err := rt.tasks.UpdateTaskStatus(r.Context(), id, domain.StatusFailed, "cancelled", "cancelled by user"); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"id":     id,
		"status": string(domain.StatusFailed),
	})
}
