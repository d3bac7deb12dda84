package handlers

import (
	"net/http"

	"github.com/skillproof/server/internal/registry"
	"github.com/skillproof/server/internal/store"
	"github.com/skillproof/server/internal/utils"
)

// GET /api/v1/employer/profiles
// VerifiedProfiles godoc
// @Summary Browse verified talent
// @Description Verified profiles, newest verification first, carrying only verified skills. Open to anonymous visitors.
// @Tags Employer
// @Produce json
// @Success 200 {object} utils.Payload
// @Router /api/v1/employer/profiles [get]
func VerifiedProfiles(w http.ResponseWriter, r *http.Request) {
	users, err := store.Records.LoadUsers(r.Context())
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to load profiles",
		})
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Verified profiles retrieved successfully",
		Data:    registry.ListVerifiedProfiles(users),
	})
}
