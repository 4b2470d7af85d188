package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// SyncEngine defines the cycles that can be triggered manually.
type SyncEngine interface {
	RunImportSubmission(ctx context.Context) error
	RunImportStatusRefresh(ctx context.Context) error
	RunArtifactFetch(ctx context.Context) error
}

// TriggerHandler handles manual cycle trigger requests.
type TriggerHandler struct {
	engine SyncEngine
}

// NewTriggerHandler creates a new TriggerHandler.
func NewTriggerHandler(eng SyncEngine) *TriggerHandler {
	return &TriggerHandler{engine: eng}
}

// TriggerOutput is the response body for the trigger endpoints.
type TriggerOutput struct {
	Body struct {
		Status string `json:"status" example:"completed" doc:"Cycle status"`
	}
}

func triggerResult() *TriggerOutput {
	resp := &TriggerOutput{}
	resp.Body.Status = "completed"
	return resp
}

// TriggerImports runs one import submission cycle.
func (h *TriggerHandler) TriggerImports(ctx context.Context, _ *struct{}) (*TriggerOutput, error) {
	if err := h.engine.RunImportSubmission(ctx); err != nil {
		return nil, huma.Error500InternalServerError("import submission failed: " + err.Error())
	}
	return triggerResult(), nil
}

// TriggerResults runs one import status refresh cycle.
func (h *TriggerHandler) TriggerResults(ctx context.Context, _ *struct{}) (*TriggerOutput, error) {
	if err := h.engine.RunImportStatusRefresh(ctx); err != nil {
		return nil, huma.Error500InternalServerError("import status refresh failed: " + err.Error())
	}
	return triggerResult(), nil
}

// TriggerArtifacts runs one artifact fetch cycle.
func (h *TriggerHandler) TriggerArtifacts(ctx context.Context, _ *struct{}) (*TriggerOutput, error) {
	if err := h.engine.RunArtifactFetch(ctx); err != nil {
		return nil, huma.Error500InternalServerError("artifact fetch failed: " + err.Error())
	}
	return triggerResult(), nil
}

// RegisterTriggerRoutes registers trigger endpoints with the Huma API.
func RegisterTriggerRoutes(api huma.API, h *TriggerHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "trigger-imports",
		Method:      http.MethodPost,
		Path:        "/api/v1/sync/imports",
		Summary:     "Trigger import submission",
		Description: "Submits pending product imports, capped at the per-cycle batch size.",
		Tags:        []string{"sync"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.TriggerImports)

	huma.Register(api, huma.Operation{
		OperationID: "trigger-results",
		Method:      http.MethodPost,
		Path:        "/api/v1/sync/results",
		Summary:     "Trigger import status refresh",
		Description: "Polls Zakeke for the outcome of submitted import tasks.",
		Tags:        []string{"sync"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.TriggerResults)

	huma.Register(api, huma.Operation{
		OperationID: "trigger-artifacts",
		Method:      http.MethodPost,
		Path:        "/api/v1/sync/artifacts",
		Summary:     "Trigger artifact fetch",
		Description: "Attaches print-ready artifacts to customized lines of pending orders.",
		Tags:        []string{"sync"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.TriggerArtifacts)
}
