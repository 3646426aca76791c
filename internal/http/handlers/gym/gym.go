// Package gym serves the gym locator.
package gym

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/gym-api/internal/types"
	"github.com/aanand-mishra/gym-api/internal/utils/request"
	"github.com/aanand-mishra/gym-api/internal/utils/response"
)

// Locator finds the gyms near a postal code.
type Locator interface {
	FindNearby(ctx context.Context, postalCode string) ([]types.Gym, error)
}

// FindNearby handles GET /consulta_academias?cep=
//
// The response is always a JSON array; a region without gyms yields [].
func FindNearby(log *slog.Logger, locator Locator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := request.Logger(log, r, "handlers.gym.FindNearby")

		cep, ok := request.Query(w, r, "cep")
		if !ok {
			return
		}

		gyms, err := locator.FindNearby(r.Context(), cep)
		if err != nil {
			response.Error(w, r, log, err)
			return
		}

		log.Debug("gyms found", slog.Int("count", len(gyms)))
		response.WriteJSON(w, r, http.StatusOK, gyms)
	}
}
