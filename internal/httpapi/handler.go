// Package httpapi mounts the REST surface of the booking server.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/YaelStO/AlasLatinasNeftify/internal/app/domain/destination"
	"github.com/YaelStO/AlasLatinasNeftify/internal/app/domain/user"
	"github.com/YaelStO/AlasLatinasNeftify/internal/app/services/catalog"
	"github.com/YaelStO/AlasLatinasNeftify/internal/app/services/identity"
	"github.com/YaelStO/AlasLatinasNeftify/internal/app/services/payments"
	"github.com/YaelStO/AlasLatinasNeftify/internal/app/services/reservations"
	apperrors "github.com/YaelStO/AlasLatinasNeftify/internal/errors"
	"github.com/YaelStO/AlasLatinasNeftify/internal/metrics"
	"github.com/YaelStO/AlasLatinasNeftify/internal/middleware"
	"github.com/YaelStO/AlasLatinasNeftify/internal/rail"
	"github.com/YaelStO/AlasLatinasNeftify/pkg/logger"
)

// Handler wires the services to the router.
type Handler struct {
	identity     *identity.Service
	catalog      *catalog.Service
	reservations *reservations.Service
	payments     *payments.Service
	metrics      *metrics.Metrics
	log          *logger.Logger

	cors    *middleware.CORSMiddleware
	auth    *middleware.AuthMiddleware
	limiter *middleware.RateLimiter
}

// Config carries the handler's middleware knobs.
type Config struct {
	AllowedOrigins []string
	AuthRateRPS    int
	AuthRateBurst  int
}

// New builds the API handler.
func New(
	identitySvc *identity.Service,
	catalogSvc *catalog.Service,
	reservationSvc *reservations.Service,
	paymentSvc *payments.Service,
	m *metrics.Metrics,
	cfg Config,
	log *logger.Logger,
) *Handler {
	if log == nil {
		log = logger.NewDefault("httpapi")
	}
	if cfg.AuthRateRPS <= 0 {
		cfg.AuthRateRPS = 5
	}
	if cfg.AuthRateBurst <= 0 {
		cfg.AuthRateBurst = 10
	}
	return &Handler{
		identity:     identitySvc,
		catalog:      catalogSvc,
		reservations: reservationSvc,
		payments:     paymentSvc,
		metrics:      m,
		log:          log,
		cors:         middleware.NewCORSMiddleware(cfg.AllowedOrigins),
		auth:         middleware.NewAuthMiddleware(identitySvc, log.WithField("component", "auth")),
		limiter:      middleware.NewRateLimiter(cfg.AuthRateRPS, cfg.AuthRateBurst, log.WithField("component", "ratelimit")),
	}
}

// Router assembles the full route table.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(h.cors.Handler)
	r.Use(middleware.LoggingMiddleware(h.log))
	if h.metrics != nil {
		r.Use(middleware.MetricsMiddleware(h.metrics))
		r.Handle("/metrics", h.metrics.Handler()).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)

	authRouter := api.PathPrefix("/auth").Subrouter()
	public := authRouter.NewRoute().Subrouter()
	public.Use(h.limiter.Handler)
	public.HandleFunc("/register", h.handleRegister).Methods(http.MethodPost)
	public.HandleFunc("/login", h.handleLogin).Methods(http.MethodPost)

	protected := authRouter.NewRoute().Subrouter()
	protected.Use(h.auth.Handler)
	protected.HandleFunc("/me", h.handleProfile).Methods(http.MethodGet)
	protected.HandleFunc("/profile", h.handleProfile).Methods(http.MethodGet)
	protected.HandleFunc("/profile", h.handleUpdateProfile).Methods(http.MethodPut)
	protected.HandleFunc("/profile", h.handleDeleteAccount).Methods(http.MethodDelete)
	protected.HandleFunc("/link-wallet", h.handleLinkWallet).Methods(http.MethodPost)

	api.HandleFunc("/destinations", h.handleListDestinations).Methods(http.MethodGet)
	api.HandleFunc("/destinations/{id}", h.handleGetDestination).Methods(http.MethodGet)

	destRouter := api.PathPrefix("/destinations").Subrouter()
	destRouter.Use(h.auth.Handler)
	destRouter.HandleFunc("", h.handleCreateDestination).Methods(http.MethodPost)
	destRouter.HandleFunc("/{id}", h.handleUpdateDestination).Methods(http.MethodPut)
	destRouter.HandleFunc("/{id}", h.handleDeleteDestination).Methods(http.MethodDelete)
	destRouter.HandleFunc("/{id}/comments", h.handleAddComment).Methods(http.MethodPost)

	resRouter := api.PathPrefix("/reservations").Subrouter()
	resRouter.Use(h.auth.Handler)
	resRouter.HandleFunc("", h.handleListReservations).Methods(http.MethodGet)
	resRouter.HandleFunc("", h.handleCreateReservation).Methods(http.MethodPost)
	resRouter.HandleFunc("/{id}", h.handleGetReservation).Methods(http.MethodGet)
	resRouter.HandleFunc("/{id}", h.handleDeleteReservation).Methods(http.MethodDelete)
	resRouter.HandleFunc("/{id}/status", h.handleReservationStatus).Methods(http.MethodGet)
	resRouter.HandleFunc("/{id}/cancel", h.handleCancelReservation).Methods(http.MethodPost)
	resRouter.HandleFunc("/{id}/pay", h.handlePayReservation).Methods(http.MethodPost)

	payRouter := api.PathPrefix("/payments").Subrouter()
	payRouter.Use(h.auth.Handler)
	payRouter.HandleFunc("", h.handleSubmitPayment).Methods(http.MethodPost)

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ---- auth ----

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name      string `json:"name"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		Phone     string `json:"phone"`
		BirthDate string `json:"birthDate"`
		Gender    string `json:"gender"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	u, token, err := h.identity.Register(r.Context(), identity.RegisterInput{
		Name:      body.Name,
		Email:     body.Email,
		Password:  body.Password,
		Phone:     body.Phone,
		BirthDate: body.BirthDate,
		Gender:    body.Gender,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"token": token, "user": u})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	u, token, err := h.identity.Authenticate(r.Context(), body.Email, body.Password)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"token": token, "user": u})
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	u, err := h.identity.GetProfile(r.Context(), middleware.UserIDFrom(r.Context()))
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, u)
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     *string `json:"name"`
		Email    *string `json:"email"`
		Phone    *string `json:"phone"`
		Password *string `json:"password"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	u, err := h.identity.UpdateProfile(r.Context(), middleware.UserIDFrom(r.Context()), user.Update{
		Name:     body.Name,
		Email:    body.Email,
		Phone:    body.Phone,
		Password: body.Password,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"message": "profile updated", "user": u})
}

func (h *Handler) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.identity.DeleteAccount(r.Context(), middleware.UserIDFrom(r.Context())); err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "account deleted"})
}

func (h *Handler) handleLinkWallet(w http.ResponseWriter, r *http.Request) {
	var body struct {
		WalletAddress string `json:"walletAddress"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	u, err := h.identity.LinkWallet(r.Context(), middleware.UserIDFrom(r.Context()), body.WalletAddress)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"message": "wallet linked", "user": u})
}

// ---- destinations ----

func (h *Handler) handleListDestinations(w http.ResponseWriter, r *http.Request) {
	list, err := h.catalog.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (h *Handler) handleGetDestination(w http.ResponseWriter, r *http.Request) {
	d, err := h.catalog.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, d)
}

func (h *Handler) handleCreateDestination(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name        string  `json:"name"`
		Location    string  `json:"location"`
		Address     string  `json:"address"`
		Description string  `json:"description"`
		Image       string  `json:"image"`
		Rating      float64 `json:"rating"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	d, err := h.catalog.Create(r.Context(), catalog.CreateInput{
		Name:        body.Name,
		Location:    body.Location,
		Address:     body.Address,
		Description: body.Description,
		Image:       body.Image,
		Rating:      body.Rating,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, d)
}

func (h *Handler) handleUpdateDestination(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name        *string  `json:"name"`
		Location    *string  `json:"location"`
		Address     *string  `json:"address"`
		Description *string  `json:"description"`
		Image       *string  `json:"image"`
		Rating      *float64 `json:"rating"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	d, err := h.catalog.Update(r.Context(), mux.Vars(r)["id"], destination.Update{
		Name:        body.Name,
		Location:    body.Location,
		Address:     body.Address,
		Description: body.Description,
		Image:       body.Image,
		Rating:      body.Rating,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, d)
}

func (h *Handler) handleDeleteDestination(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "destination deleted"})
}

func (h *Handler) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text   string  `json:"text"`
		Rating float64 `json:"rating"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	review, err := h.catalog.AddReview(r.Context(), mux.Vars(r)["id"], middleware.UserIDFrom(r.Context()), body.Text, body.Rating)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, review)
}

// ---- reservations ----

func (h *Handler) handleListReservations(w http.ResponseWriter, r *http.Request) {
	list, err := h.reservations.ListForUser(r.Context(), middleware.UserIDFrom(r.Context()))
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (h *Handler) handleCreateReservation(w http.ResponseWriter, r *http.Request) {
	var body struct {
		DestinationID string  `json:"destinationId"`
		CheckInDate   string  `json:"checkInDate"`
		CheckOutDate  string  `json:"checkOutDate"`
		TotalPrice    float64 `json:"totalPrice"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	res, err := h.reservations.Create(r.Context(), middleware.UserIDFrom(r.Context()), reservations.CreateInput{
		DestinationID: body.DestinationID,
		CheckInDate:   body.CheckInDate,
		CheckOutDate:  body.CheckOutDate,
		TotalPrice:    body.TotalPrice,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, res)
}

func (h *Handler) handleGetReservation(w http.ResponseWriter, r *http.Request) {
	res, err := h.reservations.Get(r.Context(), mux.Vars(r)["id"], middleware.UserIDFrom(r.Context()))
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (h *Handler) handleReservationStatus(w http.ResponseWriter, r *http.Request) {
	res, err := h.reservations.Get(r.Context(), mux.Vars(r)["id"], middleware.UserIDFrom(r.Context()))
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"id":            res.ID,
		"status":        res.Status,
		"paymentStatus": res.PaymentStatus,
	})
}

func (h *Handler) handleCancelReservation(w http.ResponseWriter, r *http.Request) {
	res, err := h.reservations.Cancel(r.Context(), mux.Vars(r)["id"], middleware.UserIDFrom(r.Context()))
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"message": "reservation cancelled", "reservation": res})
}

func (h *Handler) handleDeleteReservation(w http.ResponseWriter, r *http.Request) {
	// Existence and ownership first so a foreign reservation cannot be
	// removed; deleting an already-absent id is a no-op.
	id := mux.Vars(r)["id"]
	if _, err := h.reservations.Get(r.Context(), id, middleware.UserIDFrom(r.Context())); err != nil && !apperrors.IsNotFound(err) {
		h.respondError(w, err)
		return
	}
	if err := h.reservations.Delete(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "reservation deleted"})
}

// ---- payments ----

func (h *Handler) handlePayReservation(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CardNumber    string `json:"cardNumber"`
		ExpiryDate    string `json:"expiryDate"`
		CVV           string `json:"cvv"`
		Destination   string `json:"destination"`
		AmountStroops int64  `json:"amountStroops"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	details := payments.Details{
		Destination:   body.Destination,
		AmountStroops: body.AmountStroops,
	}
	if body.CardNumber != "" || body.CVV != "" || body.ExpiryDate != "" {
		details.Card = &rail.Card{Number: body.CardNumber, Expiry: body.ExpiryDate, CVV: body.CVV}
	}

	h.completePayment(w, r, mux.Vars(r)["id"], details)
}

func (h *Handler) handleSubmitPayment(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ReservationID string `json:"reservationId"`
		Destination   string `json:"destination"`
		AmountStroops int64  `json:"amountStroops"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.ReservationID == "" {
		h.respondError(w, apperrors.NewValidationError("reservationId", "is required"))
		return
	}

	h.completePayment(w, r, body.ReservationID, payments.Details{
		Destination:   body.Destination,
		AmountStroops: body.AmountStroops,
	})
}

func (h *Handler) completePayment(w http.ResponseWriter, r *http.Request, reservationID string, details payments.Details) {
	res, receipt, err := h.payments.Pay(r.Context(), reservationID, middleware.UserIDFrom(r.Context()), details)
	if err != nil {
		if h.metrics != nil && apperrors.IsPaymentFailed(err) {
			h.metrics.RecordPaymentAttempt(h.payments.RailName(), "failure")
		}
		h.respondError(w, err)
		return
	}
	if h.metrics != nil {
		h.metrics.RecordPaymentAttempt(h.payments.RailName(), "success")
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"message":       "payment successful",
		"transactionId": receipt.TransactionID,
		"reservation":   res,
	})
}

// ---- plumbing ----

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid request body"})
		return false
	}
	return true
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondError maps a service error to a status code and a user-safe body.
// Storage and unknown errors never expose internal detail.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var status int
	message := err.Error()

	switch {
	case apperrors.IsValidation(err):
		status = http.StatusBadRequest
	case apperrors.IsUnauthorized(err):
		status = http.StatusUnauthorized
	case apperrors.IsForbidden(err):
		status = http.StatusForbidden
	case apperrors.IsNotFound(err):
		status = http.StatusNotFound
	case apperrors.IsConflict(err):
		status = http.StatusConflict
	case apperrors.IsPaymentFailed(err):
		status = http.StatusBadGateway
	default:
		status = http.StatusInternalServerError
		message = "internal server error"
		h.log.WithError(err).Error("request failed")
	}

	respondJSON(w, status, map[string]string{"message": message})
}
