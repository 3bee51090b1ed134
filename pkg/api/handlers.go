package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/ksysoev/intakebot/pkg/core"
	"github.com/ksysoev/intakebot/pkg/core/flow"
)

type startConsultationRequest struct {
	ProductID string `json:"product_id"`
}

type submitAnswerRequest struct {
	QuestionID string     `json:"question_id"`
	Value      flow.Value `json:"value"`
}

type productsResponse struct {
	Products []core.Product `json:"products"`
}

type consultationsResponse struct {
	Consultations []core.Consultation `json:"consultations"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (a *API) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// listProducts handles GET /v1/products
func (a *API) listProducts(w http.ResponseWriter, r *http.Request) {
	products := a.intakeSvc.ListProducts(r.Context())
	if products == nil {
		products = []core.Product{}
	}

	writeJSON(w, http.StatusOK, productsResponse{Products: products})
}

// listConsultations handles GET /v1/users/{userID}/consultations
func (a *API) listConsultations(w http.ResponseWriter, r *http.Request) {
	consultations, err := a.intakeSvc.ConsultationStatus(r.Context(), mux.Vars(r)["userID"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if consultations == nil {
		consultations = []core.Consultation{}
	}

	writeJSON(w, http.StatusOK, consultationsResponse{Consultations: consultations})
}

// startConsultation handles POST /v1/users/{userID}/consultations
func (a *API) startConsultation(w http.ResponseWriter, r *http.Request) {
	var req startConsultationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := a.intakeSvc.StartConsultation(r.Context(), mux.Vars(r)["userID"], req.ProductID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// currentQuestion handles GET /v1/users/{userID}/consultations/current
func (a *API) currentQuestion(w http.ResponseWriter, r *http.Request) {
	resp, err := a.intakeSvc.CurrentQuestion(r.Context(), mux.Vars(r)["userID"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// submitAnswer handles POST /v1/users/{userID}/consultations/current/answers
func (a *API) submitAnswer(w http.ResponseWriter, r *http.Request) {
	var req submitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.QuestionID == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := a.intakeSvc.SubmitAnswer(r.Context(), mux.Vars(r)["userID"], req.QuestionID, req.Value)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// goBack handles POST /v1/users/{userID}/consultations/current/back
func (a *API) goBack(w http.ResponseWriter, r *http.Request) {
	resp, err := a.intakeSvc.GoBack(r.Context(), mux.Vars(r)["userID"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// resetFlow handles DELETE /v1/users/{userID}/consultations/current
func (a *API) resetFlow(w http.ResponseWriter, r *http.Request) {
	if err := a.intakeSvc.ResetFlow(r.Context(), mux.Vars(r)["userID"]); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeServiceError maps service errors onto HTTP statuses. Rejected answers carry their reason,
// unexpected errors are logged and hidden from the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrProductNotFound), errors.Is(err, core.ErrNoActiveFlow):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, flow.ErrQuestionMismatch), errors.Is(err, flow.ErrAtFirstQuestion):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, flow.ErrInvalidAnswer), errors.Is(err, flow.ErrRequiredFieldMissing):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Failed to handle request",
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
