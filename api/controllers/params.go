package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sgiraldob/vitrina-backend/api/middleware"
	"github.com/sgiraldob/vitrina-backend/internal/orders"
	pkgerrors "github.com/sgiraldob/vitrina-backend/pkg/errors"
)

func slugParam(r *http.Request) (string, error) {
	slug := strings.TrimSpace(chi.URLParam(r, "slug"))
	if slug == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "store slug is required")
	}
	return slug, nil
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, name+" is required")
	}
	value, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name)
	}
	return value, nil
}

// actorFromRequest reads the authenticated identity seeded by the auth
// middleware. A zero actor means the request is anonymous.
func actorFromRequest(r *http.Request) orders.Actor {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return orders.Actor{}
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return orders.Actor{}
	}
	return orders.Actor{UserID: userID}
}

// customerPayload is the shared contact body for both surfaces.
type customerPayload struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=200"`
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"phone" validate:"omitempty,min=5,max=32"`
}

func (p customerPayload) toInput() orders.CustomerInput {
	return orders.CustomerInput{Name: p.Name, Email: p.Email, Phone: p.Phone}
}
