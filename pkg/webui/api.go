package webui

import (
	"encoding/json"
	"net/http"

	"github.com/alantheprice/choices/pkg/itemvalue"
	"github.com/alantheprice/choices/pkg/utils"
)

// ItemView is one item as reported by the API.
type ItemView struct {
	ID      string `json:"id"`
	Value   any    `json:"value"`
	Text    string `json:"text"`
	Visible bool   `json:"visible"`
	Enabled bool   `json:"enabled"`
	Data    any    `json:"data"`
}

// ItemsResponse is returned by GET /api/items.
type ItemsResponse struct {
	Source  string         `json:"source,omitempty"`
	Locale  string         `json:"locale,omitempty"`
	Items   []ItemView     `json:"items"`
	Context map[string]any `json:"context,omitempty"`
}

// EvaluateRequest is accepted by POST /api/evaluate. Values are layered over
// the document context. Condition and EnableCondition apply to items that
// carry no expression of their own.
type EvaluateRequest struct {
	Values          map[string]any `json:"values"`
	Properties      map[string]any `json:"properties"`
	Condition       string         `json:"condition,omitempty"`
	EnableCondition string         `json:"enableCondition,omitempty"`
}

// EvaluateResponse reports the outcome of both passes.
type EvaluateResponse struct {
	Visible           []any `json:"visible"`
	Enabled           []any `json:"enabled"`
	VisibilityChanged bool  `json:"visibilityChanged"`
	EnablementChanged bool  `json:"enablementChanged"`
}

func (ws *Server) handleAPIItems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, utils.NewUserError("Method not allowed", nil))
		return
	}

	ws.itemsMu.Lock()
	resp := ItemsResponse{
		Source:  ws.source,
		Locale:  ws.owner.Locale(),
		Items:   make([]ItemView, 0, ws.items.Len()),
		Context: ws.context,
	}
	for _, it := range ws.items.Items() {
		resp.Items = append(resp.Items, viewOf(it))
	}
	ws.itemsMu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

func (ws *Server) handleAPIEvaluate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, utils.NewUserError("Method not allowed", nil))
		return
	}

	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, utils.NewValidationError("body", "invalid JSON: "+err.Error()))
		return
	}

	ws.itemsMu.Lock()
	defer ws.itemsMu.Unlock()

	vals := make(map[string]any, len(ws.context)+len(req.Values))
	for k, v := range ws.context {
		vals[k] = v
	}
	for k, v := range req.Values {
		vals[k] = v
	}
	props := req.Properties
	if props == nil {
		props = ws.properties
	}

	var visibleRunner, enableRunner itemvalue.ConditionRunner
	if req.Condition != "" {
		visibleRunner = itemvalue.Compile(req.Condition)
	}
	if req.EnableCondition != "" {
		enableRunner = itemvalue.Compile(req.EnableCondition)
	}

	var visible []*itemvalue.Item
	resp := EvaluateResponse{
		Visible: []any{},
		Enabled: []any{},
	}
	resp.VisibilityChanged = ws.items.RunConditions(&visible, visibleRunner, vals, props, true)
	resp.EnablementChanged = ws.items.RunEnabledConditions(enableRunner, vals, props, nil)
	for _, it := range visible {
		resp.Visible = append(resp.Visible, it.Value())
	}
	for _, it := range ws.items.Items() {
		if it.IsEnabled() {
			resp.Enabled = append(resp.Enabled, it.Value())
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func viewOf(it *itemvalue.Item) ItemView {
	return ItemView{
		ID:      it.ID(),
		Value:   it.Value(),
		Text:    it.Text(),
		Visible: it.IsVisible(),
		Enabled: it.IsEnabled(),
		Data:    it.Data(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err *utils.StructuredError) {
	writeJSON(w, status, map[string]any{"error": err})
}
