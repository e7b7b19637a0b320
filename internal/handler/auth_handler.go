package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/kalkulatorbisnis/backend/pkg/auth"
)

// AuthHandler は匿名 ID ブートストラップの HTTP ハンドラ。
// ストア操作の前に必ずここでトークンを取得する。
type AuthHandler struct {
	secret   []byte
	tokenTTL time.Duration
}

// NewAuthHandler は AuthHandler を生成する
func NewAuthHandler(secret []byte) *AuthHandler {
	return &AuthHandler{secret: secret, tokenTTL: auth.DefaultTokenTTL}
}

// Anonymous handles POST /api/auth/anonymous. It mints a fresh anonymous
// identity and returns a bearer token for it; no credentials are required.
func (h *AuthHandler) Anonymous(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	token, userID, err := auth.IssueAnonymousToken(h.secret, h.tokenTTL)
	if err != nil {
		slog.Error("anonymous token issue failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "token_issue_failed"})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]string{
		"token":  token,
		"userId": userID,
	})
}
