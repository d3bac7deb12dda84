package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/skillproof/server/internal/api/services"
	"github.com/skillproof/server/internal/config"
	"github.com/skillproof/server/internal/observability/metrics"
	"github.com/skillproof/server/internal/store"
	"github.com/skillproof/server/internal/utils"
)

// encodeState packs a random nonce plus flow metadata ("login"/"register")
// into the OAuth state parameter, format: nonce.payload.
func encodeState(data map[string]string) (string, error) {
	nonce, err := utils.GenerateSecureToken(16)
	if err != nil {
		return "", fmt.Errorf("failed to generate state nonce: %w", err)
	}
	payloadBytes, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to marshal state data: %w", err)
	}
	return fmt.Sprintf("%s.%s", nonce, base64.RawURLEncoding.EncodeToString(payloadBytes)), nil
}

func decodeState(state string) (map[string]string, error) {
	parts := strings.Split(state, ".")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid state format")
	}
	payloadBytes, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("failed to decode state payload: %w", err)
	}
	var data map[string]string
	if err := json.Unmarshal(payloadBytes, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state JSON: %w", err)
	}
	return data, nil
}

// GET /api/v1/auth/google/login
func HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	redirectType := r.URL.Query().Get("redirect") // "login" or "register"
	if redirectType == "" {
		redirectType = "login"
	}

	state, err := encodeState(map[string]string{"flow": redirectType})
	if err != nil {
		http.Error(w, "Failed to generate OAuth state", http.StatusInternalServerError)
		return
	}

	url := services.GoogleOauthConfig.AuthCodeURL(state)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// GET /api/v1/auth/google/callback
func HandleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	frontend := config.Envs.FrontendURL

	stateData, err := decodeState(r.FormValue("state"))
	if err != nil {
		http.Error(w, "Invalid OAuth state", http.StatusBadRequest)
		return
	}
	flowType := stateData["flow"]
	code := r.FormValue("code")

	token, err := services.GoogleOauthConfig.Exchange(context.Background(), code)
	if err != nil {
		log.Println("OAuth code exchange failed:", err)
		http.Error(w, "Code exchange failed", http.StatusInternalServerError)
		return
	}

	client := services.GoogleOauthConfig.Client(context.Background(), token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		http.Error(w, "Failed to get user info", http.StatusInternalServerError)
		return
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)

	var googleUser struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.Unmarshal(data, &googleUser); err != nil {
		http.Error(w, "Failed to parse user info", http.StatusInternalServerError)
		return
	}

	user, err := store.Records.FindUserByEmail(r.Context(), googleUser.Email)

	switch flowType {
	case "register":
		if err == nil {
			http.Redirect(w, r, frontend+"/login?error=user_already_exists", http.StatusTemporaryRedirect)
			return
		}
		// Google-authenticated, no password
		user, err = store.Records.CreateUser(r.Context(), googleUser.Email, "", googleUser.Name, googleUser.Picture)
		if err != nil {
			http.Error(w, "Failed to create user", http.StatusInternalServerError)
			return
		}
		broadcast(r)
		metrics.RegistrationsTotal.WithLabelValues("google").Inc()

	case "login":
		if errors.Is(err, store.ErrNotFound) {
			http.Redirect(w, r, frontend+"/register?error=user_not_found", http.StatusTemporaryRedirect)
			return
		} else if err != nil {
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}
		metrics.LoginsTotal.WithLabelValues("google").Inc()
	}

	if err := issueSession(w, user.ID.String(), user.Email); err != nil {
		http.Error(w, "Failed to create JWT", http.StatusInternalServerError)
		return
	}

	redirectURL := frontend + "/dashboard?status=success_login"
	if flowType == "register" {
		redirectURL = frontend + "/dashboard?status=success_register"
	}
	http.Redirect(w, r, redirectURL, http.StatusTemporaryRedirect)
}
