package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/skillproof/server/internal/observability/metrics"
	"github.com/skillproof/server/internal/registry"
	"github.com/skillproof/server/internal/store"
	"github.com/skillproof/server/internal/utils"
	"github.com/skillproof/server/internal/verification"
	"golang.org/x/sync/errgroup"
)

// GET /api/v1/admin/stats
// AdminStats godoc
// @Summary Dashboard counters: users, verified profiles, certificate queue
// @Tags Admin
// @Produce json
// @Success 200 {object} utils.Payload
// @Failure 401 {object} utils.Payload
// @Router /api/v1/admin/stats [get]
func AdminStats(w http.ResponseWriter, r *http.Request) {
	var (
		users registry.Users
		certs registry.Certificates
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		users, err = store.Records.LoadUsers(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		certs, err = store.Records.LoadCertificates(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to load registry snapshot",
		})
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Stats computed successfully",
		Data: map[string]any{
			"users":        registry.ComputeUserStats(users),
			"certificates": registry.ComputeCertificateStats(certs),
		},
	})
}

// GET /api/v1/admin/certificates
// PendingCertificates godoc
// @Summary The review queue: certificates not yet approved, oldest first
// @Tags Admin
// @Produce json
// @Success 200 {object} utils.Payload
// @Failure 401 {object} utils.Payload
// @Router /api/v1/admin/certificates [get]
func PendingCertificates(w http.ResponseWriter, r *http.Request) {
	certs, err := store.Records.LoadCertificates(r.Context())
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to load certificates",
		})
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Pending certificates retrieved successfully",
		Data:    registry.ListPendingCertificates(certs),
	})
}

// POST /api/v1/admin/certificates/{uid}/{cid}/approve
// ApproveCertificate godoc
// @Summary Approve a certificate
// @Description Marks the certificate approved, the skill under the certificate id verified, and the owning profile verified — atomically. Re-approving is a no-op.
// @Tags Admin
// @Accept json
// @Produce json
// @Param uid path string true "User id"
// @Param cid path string true "Certificate id"
// @Success 200 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /api/v1/admin/certificates/{uid}/{cid}/approve [post]
func ApproveCertificate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.JSONResponse(w, http.StatusMethodNotAllowed, utils.Payload{
			Success: false,
			Message: "Method not allowed",
		})
		return
	}

	uid := r.PathValue("uid")
	cid := r.PathValue("cid")
	if uid == "" || cid == "" {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Missing user or certificate id",
		})
		return
	}

	// Optional body override of the skill name; defaults to the name the
	// certificate was submitted with.
	var input struct {
		Skill string `json:"skill"`
	}
	if body, err := io.ReadAll(r.Body); err == nil && len(body) > 0 {
		if err := json.Unmarshal(body, &input); err != nil {
			utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
				Success: false,
				Message: "Invalid input",
			})
			return
		}
	}

	err := verification.Approve(r.Context(), store.Records, uid, cid, strings.TrimSpace(input.Skill))
	switch {
	case errors.Is(err, verification.ErrCertificateNotFound):
		metrics.ApprovalsTotal.WithLabelValues("not_found").Inc()
		utils.JSONResponse(w, http.StatusNotFound, utils.Payload{
			Success: false,
			Message: "Certificate not found",
		})
		return
	case err != nil:
		// The three writes run in one transaction, so a failure here left
		// no partial state; the whole approval can simply be retried.
		metrics.ApprovalsTotal.WithLabelValues("error").Inc()
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Approval failed, no changes were applied; please retry",
		})
		return
	}
	broadcast(r)

	metrics.ApprovalsTotal.WithLabelValues("success").Inc()
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Certificate approved",
	})
}
