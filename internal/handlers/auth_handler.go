package handlers

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"celebra/internal/middleware"
	"celebra/internal/services"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const oauthStateCookie = "oauth_state"

// AuthHandler handles the Google OAuth handshake and the caller profile
// endpoint.
type AuthHandler struct {
	authService *services.AuthService
	oauthConfig *oauth2.Config
	frontendURL string
}

// AuthConfig carries the OAuth settings the handler needs.
type AuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	BackendURL         string
	FrontendURL        string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, cfg AuthConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		frontendURL: cfg.FrontendURL,
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.BackendURL + "/auth/google/redirect",
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
	}
}

// RegisterRoutes registers the auth routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Get("/google", h.HandleGoogleLogin)
	authRoutes.Get("/google/redirect", h.HandleGoogleRedirect)
	authRoutes.Get("/me", authRequired, h.HandleMe)
}

// HandleGoogleLogin starts the OAuth code flow with a CSRF state cookie.
func (h *AuthHandler) HandleGoogleLogin(c *fiber.Ctx) error {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not start login",
		})
	}
	state := base64.URLEncoding.EncodeToString(buf)

	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
	})

	url := h.oauthConfig.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
	return c.Redirect(url, fiber.StatusTemporaryRedirect)
}

// HandleGoogleRedirect finishes the OAuth flow: validates state, exchanges the
// code, resolves the local user, and delivers the session token to the
// frontend via a URL fragment. The fragment redirect is done with a small
// script so large tokens survive intermediaries that truncate Location headers.
func (h *AuthHandler) HandleGoogleRedirect(c *fiber.Ctx) error {
	state := c.Query("state")
	if state == "" || state != c.Cookies(oauthStateCookie) {
		log.Printf("Google OAuth state validation failed")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "OAuth authentication failed",
		})
	}
	c.ClearCookie(oauthStateCookie)

	code := c.Query("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "OAuth authentication failed",
		})
	}

	token, err := h.oauthConfig.Exchange(context.Background(), code)
	if err != nil {
		log.Printf("Google OAuth token exchange failed: %v", err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "OAuth authentication failed",
		})
	}

	profile, err := h.fetchGoogleProfile(token)
	if err != nil {
		log.Printf("Failed to fetch Google profile: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": "OAuth authentication failed",
		})
	}

	user, err := h.authService.ValidateGoogleUser(*profile)
	if err != nil {
		log.Printf("Failed to resolve user for %s: %v", profile.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Authentication failed",
		})
	}

	sessionToken, err := h.authService.Login(user)
	if err != nil {
		log.Printf("Failed to issue session token for %s: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Authentication failed",
		})
	}

	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.SendString(fmt.Sprintf(
		`<script>window.location.href = %q;</script>`,
		h.frontendURL+"/auth/callback#token="+sessionToken,
	))
}

// HandleMe returns the caller's profile plus the derived hasAccess flag.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	return c.JSON(fiber.Map{
		"id":          user.ID,
		"email":       user.Email,
		"googleId":    user.GoogleID,
		"name":        user.Name,
		"avatar":      user.Avatar,
		"role":        user.Role,
		"status":      user.Status,
		"maxRequests": user.MaxRequests,
		"createdAt":   user.CreatedAt,
		"hasAccess":   user.HasAccess(),
	})
}

// fetchGoogleProfile reads the userinfo document for the exchanged token.
func (h *AuthHandler) fetchGoogleProfile(token *oauth2.Token) (*services.GoogleProfile, error) {
	client := h.oauthConfig.Client(context.Background(), token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("failed to get Google user info: %w", err)
	}
	defer resp.Body.Close()

	var userInfo struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, fmt.Errorf("failed to decode Google user info: %w", err)
	}
	if userInfo.Email == "" {
		return nil, fmt.Errorf("Google user info carried no email")
	}

	return &services.GoogleProfile{
		Email:    userInfo.Email,
		Name:     userInfo.Name,
		Picture:  userInfo.Picture,
		GoogleID: userInfo.ID,
	}, nil
}
