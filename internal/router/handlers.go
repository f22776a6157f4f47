package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dkolesni/itemstash/internal/apperror"
	"github.com/dkolesni/itemstash/internal/auth"
	"github.com/dkolesni/itemstash/internal/logger"
	"github.com/dkolesni/itemstash/internal/models"
)

type handlers struct {
	authService authServicer
	itemService itemServicer
	db          pinger
	validate    *validator.Validate
}

func newHandlers(authService authServicer, itemService itemServicer, db pinger) *handlers {
	return &handlers{
		authService: authService,
		itemService: itemService,
		db:          db,
		validate:    validator.New(),
	}
}

func writeJSON(response http.ResponseWriter, status int, payload interface{}) {
	response.Header().Set("Content-Type", "application/json")
	response.WriteHeader(status)
	if err := json.NewEncoder(response).Encode(payload); err != nil {
		logger.Log.Debugln("failed to encode response:", zap.Error(err))
	}
}

// writeError maps any failure onto the public error taxonomy. Internal
// failures are logged with their cause and surfaced as a bare 500.
func writeError(response http.ResponseWriter, err error) {
	appErr := apperror.From(err)

	message := appErr.Message
	if appErr.Kind == apperror.KindInternal {
		logger.Log.Errorln("request failed:", zap.Error(err))
		message = "Internal server error"
	}

	writeJSON(response, appErr.StatusCode(), models.ErrorResponse{Error: message})
}

func (h *handlers) getHealth(response http.ResponseWriter, request *http.Request) {
	if err := h.db.Ping(request.Context()); err != nil {
		writeError(response, apperror.NewInternalError("storage is unreachable", err))

		return
	}

	writeJSON(response, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) postRegister(response http.ResponseWriter, request *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(request.Body).Decode(&req); err != nil {
		writeError(response, apperror.NewValidationError("Invalid request body"))

		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(response, apperror.NewValidationError("Email and password are required"))

		return
	}

	if err := h.authService.Register(request.Context(), req.Email, req.Password); err != nil {
		writeError(response, err)

		return
	}

	writeJSON(response, http.StatusCreated, models.MessageResponse{Message: "User registered successfully"})
}

func (h *handlers) postLogin(response http.ResponseWriter, request *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(request.Body).Decode(&req); err != nil {
		writeError(response, apperror.NewValidationError("Invalid request body"))

		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(response, apperror.NewValidationError("Email and password are required"))

		return
	}

	tokenString, err := h.authService.Login(request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(response, err)

		return
	}

	writeJSON(response, http.StatusOK, models.TokenResponse{Token: tokenString})
}

// callerID pulls the authenticated user id injected by the auth middleware.
// A route reached without it answers 401.
func callerID(response http.ResponseWriter, request *http.Request) (string, bool) {
	userID, ok := auth.UserIDFromContext(request.Context())
	if !ok {
		writeError(response, apperror.NewUnauthorizedError("Unauthorized", nil))
	}

	return userID, ok
}

func (h *handlers) postItem(response http.ResponseWriter, request *http.Request) {
	userID, ok := callerID(response, request)
	if !ok {
		return
	}

	var req models.CreateItemRequest
	if err := json.NewDecoder(request.Body).Decode(&req); err != nil {
		writeError(response, apperror.NewValidationError("Invalid request body"))

		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(response, apperror.NewValidationError("Name and price are required"))

		return
	}

	created, err := h.itemService.Create(request.Context(), userID, req.Name, *req.Price)
	if err != nil {
		writeError(response, err)

		return
	}

	writeJSON(response, http.StatusCreated, created)
}

func (h *handlers) getItems(response http.ResponseWriter, request *http.Request) {
	userID, ok := callerID(response, request)
	if !ok {
		return
	}

	items, err := h.itemService.List(request.Context(), userID)
	if err != nil {
		writeError(response, err)

		return
	}

	writeJSON(response, http.StatusOK, items)
}

func (h *handlers) putItem(response http.ResponseWriter, request *http.Request) {
	userID, ok := callerID(response, request)
	if !ok {
		return
	}

	var patch models.ItemPatch
	if err := json.NewDecoder(request.Body).Decode(&patch); err != nil {
		writeError(response, apperror.NewValidationError("Invalid request body"))

		return
	}

	updated, err := h.itemService.Update(request.Context(), userID, chi.URLParam(request, "id"), patch)
	if err != nil {
		writeError(response, err)

		return
	}

	writeJSON(response, http.StatusOK, updated)
}

func (h *handlers) deleteItem(response http.ResponseWriter, request *http.Request) {
	userID, ok := callerID(response, request)
	if !ok {
		return
	}

	if err := h.itemService.Delete(request.Context(), userID, chi.URLParam(request, "id")); err != nil {
		writeError(response, err)

		return
	}

	writeJSON(response, http.StatusOK, models.MessageResponse{Message: "Item deleted"})
}
