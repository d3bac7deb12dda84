package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/skillproof/server/internal/config"
	"github.com/skillproof/server/internal/observability/metrics"
	"github.com/skillproof/server/internal/store"
	"github.com/skillproof/server/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

// JWT Claims struct
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

const sessionTTL = 24 * time.Hour

// issueSession signs a session JWT for the user and sets it as the auth
// cookie.
func issueSession(w http.ResponseWriter, userID, email string) error {
	expiration := time.Now().Add(sessionTTL)
	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(config.Envs.JWTSecret))
	if err != nil {
		return err
	}

	isProd := config.Envs.Environment == "production"
	sameSite := http.SameSiteLaxMode
	if isProd {
		sameSite = http.SameSiteNoneMode
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    tokenString,
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
		Secure:   isProd,
		HttpOnly: true,
		SameSite: sameSite,
	})
	return nil
}

// POST /api/v1/auth/sign-up
// SignUp godoc
// @Summary Register with email and password
// @Description Creates an unverified profile and signs the new user in.
// @Tags Auth
// @Accept json
// @Produce json
// @Success 201 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Router /api/v1/auth/sign-up [post]
func SignUp(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.JSONResponse(w, http.StatusMethodNotAllowed, utils.Payload{
			Success: false,
			Message: "Method not allowed",
		})
		return
	}

	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
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

	input.Email = strings.TrimSpace(input.Email)
	if input.Email == "" || !strings.Contains(input.Email, "@") {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid input",
		})
		return
	}
	if len(input.Password) < 6 {
		metrics.RegistrationsTotal.WithLabelValues("weak_password").Inc()
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Password must be at least 6 characters",
		})
		return
	}

	if _, err := store.Records.FindUserByEmail(r.Context(), input.Email); err == nil {
		metrics.RegistrationsTotal.WithLabelValues("email_in_use").Inc()
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "User already exists with this email",
		})
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database query failed",
		})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to hash password",
		})
		return
	}

	user, err := store.Records.CreateUser(r.Context(), input.Email, string(hashedPassword), input.Name, "")
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database insert failed",
		})
		return
	}
	broadcast(r)

	if err := issueSession(w, user.ID.String(), user.Email); err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to create token",
		})
		return
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	utils.JSONResponse(w, http.StatusCreated, utils.Payload{
		Success: true,
		Message: "User registered successfully",
	})
}

// POST /api/v1/auth/login
// Login godoc
// @Summary Sign in with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} utils.Payload
// @Failure 401 {object} utils.Payload
// @Router /api/v1/auth/login [post]
func Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.JSONResponse(w, http.StatusMethodNotAllowed, utils.Payload{
			Success: false,
			Message: "Method not allowed",
		})
		return
	}

	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil || input.Email == "" || input.Password == "" {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid input",
		})
		return
	}

	user, err := store.Records.FindUserByEmail(r.Context(), input.Email)
	switch {
	case err == nil:
		// user found
	case errors.Is(err, store.ErrNotFound):
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
			Success: false,
			Message: "Invalid credentials",
		})
		return
	default:
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database error",
		})
		return
	}

	// Imported and Google-only accounts have no password hash; they can't
	// sign in this way.
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
			Success: false,
			Message: "Invalid credentials",
		})
		return
	}

	if err := issueSession(w, user.ID.String(), user.Email); err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to create token",
		})
		return
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Login successful",
	})
}

// POST /api/v1/auth/logout
func Logout(w http.ResponseWriter, r *http.Request) {
	isProd := config.Envs.Environment == "production"

	// Delete the token cookie
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // maxAge < 0 deletes the cookie
		Secure:   isProd,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Logged out successfully",
	})
}
