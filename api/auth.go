package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	authCookieName = "auth_token"
	authMarker     = "authenticated"
	authMaxAge     = 60 * 60 * 24 * 7
)

// loginGate checks the shared app password and the session marker cookie.
// An empty password disables the gate.
type loginGate struct {
	password string
	secure   bool
	logger   *zap.Logger
}

func newLoginGate(password string, secure bool, logger *zap.Logger) *loginGate {
	return &loginGate{password: password, secure: secure, logger: logger}
}

func (g *loginGate) enabled() bool { return g.password != "" }

// token signs the marker with the password so the cookie cannot be forged.
func (g *loginGate) token() string {
	mac := hmac.New(sha256.New, []byte(g.password))
	mac.Write([]byte(authMarker))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func (g *loginGate) handleLogin(ctx *gin.Context) {
	var req struct {
		Password string `json:"password"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno"})
		return
	}

	if !g.enabled() {
		ctx.JSON(http.StatusOK, gin.H{"success": true})
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(g.password)) != 1 {
		g.logger.Warn("rejected login attempt", zap.String("client_ip", ctx.ClientIP()))
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Senha incorreta"})
		return
	}

	ctx.SetSameSite(http.SameSiteStrictMode)
	ctx.SetCookie(authCookieName, g.token(), authMaxAge, "/", "", g.secure, true)
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

func (g *loginGate) handleLogout(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteStrictMode)
	ctx.SetCookie(authCookieName, "", -1, "/", "", g.secure, true)
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// requireAuth rejects requests without a valid session cookie.
func (g *loginGate) requireAuth(ctx *gin.Context) {
	if !g.enabled() {
		ctx.Next()
		return
	}
	cookie, err := ctx.Cookie(authCookieName)
	if err != nil || !hmac.Equal([]byte(cookie), []byte(g.token())) {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	ctx.Next()
}
