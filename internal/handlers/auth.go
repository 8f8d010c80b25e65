package handlers

import (
	"log/slog"
	"net/http"

	"selfhelpblog/internal/db"
	"selfhelpblog/internal/middleware"
	"selfhelpblog/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
)

type AuthHandler struct {
	store    *db.Store
	identity services.IdentityProvider
}

func NewAuthHandler(store *db.Store, identity services.IdentityProvider) *AuthHandler {
	return &AuthHandler{store: store, identity: identity}
}

// Login resolves the OAuth session to a local user, creating it on first visit.
func (h *AuthHandler) Login(c *gin.Context) {
	session := sessions.Default(c)
	accessToken, _ := session.Get(middleware.SessionAccessToken).(string)
	if accessToken == "" {
		c.Redirect(http.StatusFound, "/login/google")
		return
	}
	tokenType, _ := session.Get(middleware.SessionTokenType).(string)
	token := &oauth2.Token{AccessToken: accessToken, TokenType: tokenType}

	ctx := c.Request.Context()
	email, err := h.identity.Email(ctx, token)
	if err != nil {
		// 令牌可能已失效，清除后下次访问重新走授权流程
		session.Delete(middleware.SessionAccessToken)
		session.Delete(middleware.SessionTokenType)
		session.Save()

		c.Error(err)
		slog.ErrorContext(ctx, "profile request failed", slog.String("error", err.Error()))
		c.String(http.StatusBadGateway, "Upstream authentication failed")
		c.Abort()
		return
	}

	user, created, err := h.store.FindOrCreateUser(ctx, email)
	if err != nil {
		renderFailure(c, err, "")
		return
	}
	if created {
		slog.InfoContext(ctx, "user created", slog.Uint64("user_id", uint64(user.ID)), slog.String("email", email))
	}

	session.Set(middleware.SessionUserID, user.ID)
	session.Save()

	c.String(http.StatusOK, "You are logged in as %s", email)
}

// GoogleLogin 发起 Google OAuth 登录
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	state, err := services.GenerateStateToken()
	if err != nil {
		renderFailure(c, err, "")
		return
	}

	// 将 state 存储到 session 中,用于验证回调
	session := sessions.Default(c)
	session.Set(middleware.SessionOAuthState, state)
	session.Save()

	c.Redirect(http.StatusTemporaryRedirect, h.identity.AuthCodeURL(state))
}

// GoogleCallback 处理 Google OAuth 回调
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	session := sessions.Default(c)
	savedState, _ := session.Get(middleware.SessionOAuthState).(string)

	if savedState == "" || c.Query("state") != savedState {
		RenderError(c, http.StatusBadRequest, "Invalid OAuth state")
		return
	}

	session.Delete(middleware.SessionOAuthState)
	session.Save()

	code := c.Query("code")
	if code == "" {
		RenderError(c, http.StatusBadRequest, "Authorization was not granted")
		return
	}

	ctx := c.Request.Context()
	token, err := h.identity.Exchange(ctx, code)
	if err != nil {
		c.Error(err)
		slog.ErrorContext(ctx, "token exchange failed", slog.String("error", err.Error()))
		RenderError(c, http.StatusBadGateway, "Could not obtain an access token")
		return
	}

	session.Set(middleware.SessionAccessToken, token.AccessToken)
	session.Set(middleware.SessionTokenType, token.TokenType)
	session.Save()

	c.Redirect(http.StatusFound, "/login")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.Redirect(http.StatusFound, "/")
}
