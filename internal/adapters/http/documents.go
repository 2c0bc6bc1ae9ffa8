package httpadapter

import (
	"net/http"
	"strings"

	"github.com/xichaow/document-classification/internal/core/domain"
)

type documentStatusResponse struct {
	Task   *domain.Task           `json:"task"`
	Result *domain.PipelineResult `json:"result,omitempty"`
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	task, err := rt.submitter.Submit(r.Context(), fileHeader.Filename, file)
	if err != nil {
		writeError(w, err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordDocumentUpload(rt.service, fileHeader.Size)
	}
	writeJSON(w, http.StatusAccepted, task)
}

func (rt *Router) getDocumentByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/documents/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "task id is required"})
		return
	}

	task, err := rt.tasks.GetTask(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	response := documentStatusResponse{Task: task}
	result, err := rt.results.GetResult(r.Context(), id)
	switch {
	case err == nil:
		response.Result = result
	case domain.IsKind(err, domain.ErrResultNotFound):
		// Still in flight, the task record alone is the answer.
	default:
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response)
}
