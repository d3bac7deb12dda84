package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/skillproof/server/internal/api/middleware"
	"github.com/skillproof/server/internal/repositories"
	"github.com/skillproof/server/internal/store"
	"github.com/skillproof/server/internal/utils"
)

// broadcast pushes fresh snapshots to all subscribers after a successful
// write. A failed reload is logged, not surfaced; the write itself stood.
func broadcast(r *http.Request) {
	if err := store.Records.Broadcast(r.Context()); err != nil {
		log.Println("snapshot broadcast failed:", err)
	}
}

// GET /api/v1/me
// Me godoc
// @Summary Current user's profile, skills included
// @Tags Profile
// @Produce json
// @Success 200 {object} utils.Payload
// @Failure 401 {object} utils.Payload
// @Router /api/v1/me [get]
func Me(w http.ResponseWriter, r *http.Request) {
	identity := middleware.Identity(r)

	user, err := store.Records.FindUserByID(r.Context(), identity.ID)
	if err != nil {
		utils.JSONResponse(w, http.StatusNotFound, utils.Payload{
			Success: false,
			Message: "Profile not found",
		})
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Profile retrieved successfully",
		Data:    user,
	})
}

// PUT /api/v1/profile
// SaveProfile godoc
// @Summary Update profile name and/or photo
// @Description Partial update; omitted fields keep their values. Email and verification status can't be edited here.
// @Tags Profile
// @Accept json
// @Produce json
// @Success 200 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Router /api/v1/profile [put]
func SaveProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		utils.JSONResponse(w, http.StatusMethodNotAllowed, utils.Payload{
			Success: false,
			Message: "Method not allowed",
		})
		return
	}
	identity := middleware.Identity(r)

	var input struct {
		Name     *string `json:"name"`
		PhotoURL *string `json:"photoUrl"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid input",
		})
		return
	}

	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.PhotoURL != nil {
		updates["photo_url"] = *input.PhotoURL
	}
	if len(updates) == 0 {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Nothing to update",
		})
		return
	}

	if err := store.Records.SaveProfile(r.Context(), identity.ID, updates); err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to save profile",
		})
		return
	}
	broadcast(r)

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Profile saved successfully",
	})
}

// POST /api/v1/profile/skills
// AddSkill godoc
// @Summary Add an unverified skill
// @Tags Profile
// @Accept json
// @Produce json
// @Success 201 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Router /api/v1/profile/skills [post]
func AddSkill(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.JSONResponse(w, http.StatusMethodNotAllowed, utils.Payload{
			Success: false,
			Message: "Method not allowed",
		})
		return
	}
	identity := middleware.Identity(r)

	var input struct {
		Name string `json:"name"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil || strings.TrimSpace(input.Name) == "" {
		// Rejected locally; nothing reaches the store.
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Skill name is required",
		})
		return
	}

	skill, err := store.Records.AddSkill(r.Context(), identity.ID, strings.TrimSpace(input.Name))
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to add skill",
		})
		return
	}
	broadcast(r)

	utils.JSONResponse(w, http.StatusCreated, utils.Payload{
		Success: true,
		Message: "Skill added successfully",
		Data:    skill,
	})
}

// POST /api/v1/profile/certificates
// SubmitCertificate godoc
// @Summary Submit a certificate link for review
// @Description The certificate enters the admin review queue as pending. Only the link is stored, never the file.
// @Tags Profile
// @Accept json
// @Produce json
// @Success 201 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Router /api/v1/profile/certificates [post]
func SubmitCertificate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.JSONResponse(w, http.StatusMethodNotAllowed, utils.Payload{
			Success: false,
			Message: "Method not allowed",
		})
		return
	}
	identity := middleware.Identity(r)

	var input struct {
		Skill   string `json:"skill"`
		FileURL string `json:"fileUrl"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid input",
		})
		return
	}

	input.Skill = strings.TrimSpace(input.Skill)
	if input.Skill == "" || input.FileURL == "" {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Skill name and certificate URL are required",
		})
		return
	}
	if u, err := url.ParseRequestURI(input.FileURL); err != nil || u.Host == "" {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Certificate URL is not a valid link",
		})
		return
	}

	cert, err := store.Records.CreateCertificate(r.Context(), identity.ID, input.Skill, input.FileURL)
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to submit certificate",
		})
		return
	}
	broadcast(r)

	utils.JSONResponse(w, http.StatusCreated, utils.Payload{
		Success: true,
		Message: "Certificate submitted for review",
		Data:    cert,
	})
}

// POST /api/v1/profile/photo/presign
// PresignPhoto godoc
// @Summary Generate a presigned upload URL for a profile photo
// @Description The client uploads directly to storage, then saves the returned photoUrl via PUT /api/v1/profile.
// @Tags Profile
// @Produce json
// @Success 200 {object} utils.Payload
// @Failure 503 {object} utils.Payload
// @Router /api/v1/profile/photo/presign [post]
func PresignPhoto(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.JSONResponse(w, http.StatusMethodNotAllowed, utils.Payload{
			Success: false,
			Message: "Method not allowed",
		})
		return
	}
	if repositories.R2Client == nil {
		utils.JSONResponse(w, http.StatusServiceUnavailable, utils.Payload{
			Success: false,
			Message: "Photo storage is not configured",
		})
		return
	}
	identity := middleware.Identity(r)

	token, err := utils.GenerateSecureToken(16)
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to create upload key",
		})
		return
	}
	key := fmt.Sprintf("photos/%s/%s", identity.ID, token)

	uploadURL, err := repositories.PresignPhotoUpload(r.Context(), key, 15*time.Minute)
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to presign upload",
		})
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Upload URL generated successfully",
		Data: map[string]any{
			"uploadUrl": uploadURL,
			"photoUrl":  repositories.PhotoPublicURL(key),
		},
	})
}
