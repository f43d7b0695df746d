package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/fashionchips/storefront/internal/order"
	"github.com/fashionchips/storefront/internal/session"
	"github.com/fashionchips/storefront/internal/view"
)

const sessionCookie = "storefront_session"

// Service is the application surface the HTTP layer drives.
type Service interface {
	View(ctx context.Context, sess *session.Session) view.ViewModel
	AddToCart(ctx context.Context, userID, productID string) error
	UpdateCartQuantity(ctx context.Context, userID, productID string, delta int) error
	Checkout(ctx context.Context, userID, pickupTime string) (string, error)
	SetOrderStatus(ctx context.Context, orderID string, status order.Status) error
	UpsertProduct(ctx context.Context, id, name string, price float64, description, imageURL string) (string, error)
	RemoveProduct(ctx context.Context, id string) error
}

type AddToCartRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

type UpdateQuantityRequest struct {
	Delta int `json:"delta" validate:"required,oneof=-1 1"`
}

type CheckoutRequest struct {
	PickupTime string `json:"pickup_time" validate:"required"`
}

type AdminLoginRequest struct {
	PIN string `json:"pin" validate:"required"`
}

type ProductRequest struct {
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"name" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
}

type OrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type StorefrontHandler struct {
	svc      Service
	sessions *session.Store
	validate *validator.Validate
}

func NewStorefrontHandler(svc Service, sessions *session.Store) *StorefrontHandler {
	return &StorefrontHandler{
		svc:      svc,
		sessions: sessions,
		validate: validator.New(),
	}
}

func (h *StorefrontHandler) RegisterRoutes(router chi.Router) {
	router.Use(h.withSession)

	router.Get("/view", h.handleView)
	router.Post("/cart/items", h.handleAddToCart)
	router.Post("/cart/items/{id}/quantity", h.handleUpdateQuantity)
	router.Post("/orders", h.handleCheckout)
	router.Post("/admin/login", h.handleAdminLogin)
	router.Post("/admin/logout", h.handleAdminLogout)

	router.Group(func(admin chi.Router) {
		admin.Use(h.requireAdmin)
		admin.Post("/admin/products", h.handleUpsertProduct)
		admin.Delete("/admin/products/{id}", h.handleRemoveProduct)
		admin.Post("/admin/orders/{id}/status", h.handleOrderStatus)
	})
}

type sessionCtxKey struct{}

// withSession resolves the session cookie, issuing a fresh anonymous
// session when none exists yet.
func (h *StorefrontHandler) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sess *session.Session

		if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
			sess = h.sessions.Get(cookie.Value)
		} else {
			issued, err := h.sessions.Issue()
			if err != nil {
				log.Error().Err(err).Msg("handler: failed to issue session")
				respondWithError(w, http.StatusInternalServerError, "failed to start session")
				return
			}
			sess = issued
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    sess.UserID,
				Path:     "/",
				HttpOnly: true,
			})
		}

		ctx := context.WithValue(r.Context(), sessionCtxKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *StorefrontHandler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !sessionFrom(r).IsAdmin {
			respondWithError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func sessionFrom(r *http.Request) *session.Session {
	sess, _ := r.Context().Value(sessionCtxKey{}).(*session.Session)
	return sess
}

func (h *StorefrontHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("invalid request payload: %v", err))
		return false
	}

	if err := h.validate.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			respondWithError(w, http.StatusBadRequest, formatValidationErrors(validationErrors))
			return false
		}
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return false
	}
	return true
}

func (h *StorefrontHandler) handleView(w http.ResponseWriter, r *http.Request) {
	vm := h.svc.View(r.Context(), sessionFrom(r))
	respondWithJSON(w, http.StatusOK, vm)
}

func (h *StorefrontHandler) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	var req AddToCartRequest
	if !h.decode(w, r, &req) {
		return
	}

	sess := sessionFrom(r)
	if err := h.svc.AddToCart(r.Context(), sess.UserID, req.ProductID); err != nil {
		respondWithError(w, mapErrorToStatusCode(err), err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, h.svc.View(r.Context(), sess))
}

func (h *StorefrontHandler) handleUpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")
	if productID == "" {
		respondWithError(w, http.StatusBadRequest, "product id is required")
		return
	}

	var req UpdateQuantityRequest
	if !h.decode(w, r, &req) {
		return
	}

	sess := sessionFrom(r)
	if err := h.svc.UpdateCartQuantity(r.Context(), sess.UserID, productID, req.Delta); err != nil {
		respondWithError(w, mapErrorToStatusCode(err), err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, h.svc.View(r.Context(), sess))
}

func (h *StorefrontHandler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if !h.decode(w, r, &req) {
		return
	}

	sess := sessionFrom(r)
	id, err := h.svc.Checkout(r.Context(), sess.UserID, req.PickupTime)
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{
		"order_id":    id,
		"short_id":    view.ShortID(id),
		"pickup_time": req.PickupTime,
	})
}

func (h *StorefrontHandler) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req AdminLoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	sess := sessionFrom(r)
	if err := h.sessions.Login(sess.UserID, req.PIN); err != nil {
		respondWithError(w, mapErrorToStatusCode(err), "invalid PIN")
		return
	}
	respondWithJSON(w, http.StatusOK, h.svc.View(r.Context(), h.sessions.Get(sess.UserID)))
}

func (h *StorefrontHandler) handleAdminLogout(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	h.sessions.Logout(sess.UserID)
	respondWithJSON(w, http.StatusOK, h.svc.View(r.Context(), h.sessions.Get(sess.UserID)))
}

func (h *StorefrontHandler) handleUpsertProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !h.decode(w, r, &req) {
		return
	}

	id, err := h.svc.UpsertProduct(r.Context(), req.ID, req.Name, req.Price, req.Description, req.ImageURL)
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"product_id": id})
}

func (h *StorefrontHandler) handleRemoveProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "product id is required")
		return
	}

	if err := h.svc.RemoveProduct(r.Context(), id); err != nil {
		respondWithError(w, mapErrorToStatusCode(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *StorefrontHandler) handleOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		respondWithError(w, http.StatusBadRequest, "order id is required")
		return
	}

	var req OrderStatusRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.svc.SetOrderStatus(r.Context(), orderID, order.Status(req.Status)); err != nil {
		respondWithError(w, mapErrorToStatusCode(err), err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{
		"order_id": orderID,
		"short_id": view.ShortID(orderID),
		"status":   req.Status,
	})
}
