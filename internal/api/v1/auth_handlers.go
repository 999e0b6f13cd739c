package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/idtoken"

	"github.com/aneeshsrinivas/academy-api/internal/auth"
	"github.com/aneeshsrinivas/academy-api/internal/config"
	"github.com/aneeshsrinivas/academy-api/internal/models"
	"github.com/aneeshsrinivas/academy-api/internal/service"
	"github.com/aneeshsrinivas/academy-api/internal/store"
	"github.com/aneeshsrinivas/academy-api/internal/utils"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type AuthHandler struct {
	cfg   *config.Config
	user  *service.UserService
	store *store.Store
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResp struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	Role        string `json:"role,omitempty"`
}

func NewAuthHandler(cfg *config.Config, userSvc *service.UserService, s *store.Store) *AuthHandler {
	return &AuthHandler{cfg: cfg, user: userSvc, store: s}
}

func cookieDomain(r *http.Request) string {
	host := r.Host
	if strings.Contains(host, ":") {
		host = strings.Split(host, ":")[0]
	}
	return host
}

func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, r *http.Request, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cfg.Env == "production",
		SameSite: http.SameSiteLaxMode,
		Domain:   cookieDomain(r),
		Expires:  expires,
	})
}

// Login handler
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "Invalid request", nil, err.Error())
		return
	}
	u, err := h.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusUnauthorized, false, "invalid credentials", nil, nil)
		return
	}
	ok, err := utils.ComparePasswordAndHash(req.Password, u.PasswordHash)
	if err != nil || !ok {
		utils.WriteJSONResponse(w, http.StatusUnauthorized, false, "invalid credentials", nil, nil)
		return
	}
	if !u.Active {
		utils.WriteJSONResponse(w, http.StatusForbidden, false, "account disabled", nil, nil)
		return
	}
	access, err := auth.GenerateAccessToken(h.cfg, u.ID, string(u.Role))
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "token error", nil, err.Error())
		return
	}
	rt := utils.RandomToken()
	expires := time.Now().Add(h.cfg.RefreshTokenTTL)
	if err := h.store.SaveRefreshToken(r.Context(), u.ID, rt, expires); err != nil {
		utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "save refresh token error", nil, err.Error())
		return
	}
	h.setRefreshCookie(w, r, rt, expires)

	resp := tokenResp{AccessToken: access, ExpiresIn: int64(h.cfg.AccessTokenTTL.Seconds()), Role: string(u.Role)}
	utils.WriteJSONResponse(w, http.StatusOK, true, "login successful", resp, nil)
}

// Logout revokes the refresh token from the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("refresh_token")
	if err != nil || cookie.Value == "" {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "missing refresh token cookie", nil, nil)
		return
	}
	if err := h.store.RevokeRefreshToken(r.Context(), cookie.Value); err != nil {
		utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "revoke error", nil, err.Error())
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.Env == "production",
		SameSite: http.SameSiteLaxMode,
	})
	utils.WriteJSONResponse(w, http.StatusOK, true, "logged out", nil, nil)
}

// Refresh rotates the refresh token and returns a new access token.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("refresh_token")
	if err != nil || cookie.Value == "" {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "missing refresh token cookie", nil, nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rt, err := h.store.FindRefreshToken(ctx, cookie.Value)
	if err != nil || rt == nil {
		utils.WriteJSONResponse(w, http.StatusUnauthorized, false, "invalid refresh token", nil, nil)
		return
	}

	newPlain := utils.RandomToken()
	newExpiry := time.Now().Add(h.cfg.RefreshTokenTTL)
	if _, err := h.store.RotateRefreshToken(ctx, cookie.Value, newPlain, newExpiry); err != nil {
		// rotation failed (token may have been concurrently revoked/expired)
		utils.WriteJSONResponse(w, http.StatusUnauthorized, false, "invalid refresh token", nil, nil)
		return
	}
	u, err := h.store.GetUserByID(ctx, rt.UserID)
	if err != nil || u == nil {
		utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "user not found", nil, nil)
		return
	}
	accessToken, err := auth.GenerateAccessToken(h.cfg, u.ID, string(u.Role))
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "could not create access token", nil, nil)
		return
	}
	h.setRefreshCookie(w, r, newPlain, newExpiry)

	resp := tokenResp{AccessToken: accessToken, ExpiresIn: int64(h.cfg.AccessTokenTTL.Seconds()), Role: string(u.Role)}
	utils.WriteJSONResponse(w, http.StatusOK, true, "refresh successful", resp, nil)
}

// GoogleSignIn exchanges an authorization code server-side and signs the
// user in, creating a customer account on first sight.
func (h *AuthHandler) GoogleSignIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "bad request", nil, "missing code")
		return
	}

	ctx := r.Context()
	oauthCfg := &oauth2.Config{
		ClientID:     h.cfg.GoogleClientID,
		ClientSecret: h.cfg.GoogleClientSecret,
		RedirectURL:  h.cfg.GoogleRedirectURL,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"openid", "email", "profile"},
	}

	token, err := oauthCfg.Exchange(ctx, req.Code)
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusUnauthorized, false, "code exchange failed", nil, err.Error())
		return
	}
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		utils.WriteJSONResponse(w, http.StatusUnauthorized, false, "id_token not present in token response", nil, nil)
		return
	}
	payload, err := idtoken.Validate(ctx, rawIDToken, h.cfg.GoogleClientID)
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusUnauthorized, false, "invalid id token", nil, err.Error())
		return
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "email not present in token", nil, nil)
		return
	}
	name, _ := payload.Claims["name"].(string)

	u, err := h.store.GetUserByEmail(ctx, email)
	if err != nil {
		// first sign-in: create a passwordless customer account
		created, err2 := h.user.CreateUser(ctx, email, "", name, models.RoleCustomer)
		if err2 != nil {
			utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "error creating user", nil, err2.Error())
			return
		}
		u = created
	}
	if !u.Active {
		utils.WriteJSONResponse(w, http.StatusForbidden, false, "account disabled", nil, nil)
		return
	}

	access, err := auth.GenerateAccessToken(h.cfg, u.ID, string(u.Role))
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "token generation error", nil, err.Error())
		return
	}
	rt := utils.RandomToken()
	expires := time.Now().Add(h.cfg.RefreshTokenTTL)
	if err := h.store.SaveRefreshToken(ctx, u.ID, rt, expires); err != nil {
		utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "save refresh token error", nil, err.Error())
		return
	}
	h.setRefreshCookie(w, r, rt, expires)

	resp := tokenResp{AccessToken: access, ExpiresIn: int64(h.cfg.AccessTokenTTL.Seconds()), Role: string(u.Role)}
	utils.WriteJSONResponse(w, http.StatusOK, true, "login successful", resp, nil)
}

// SetPassword completes the one-time setup link mailed on coach approval.
func (h *AuthHandler) SetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "bad request", nil, "missing token")
		return
	}
	if err := h.user.SetPassword(r.Context(), req.Token, req.Password); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, true, "password set, you can log in now", nil, nil)
}
