package http

import (
	apperrors "chat-gate/errors"
	"chat-gate/services"
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, 2<<20))
	if err != nil {
		return err
	}
	return json.Unmarshal(body, v)
}

// statusOf maps domain errors onto the HTTP taxonomy. Anything
// unclassified is an internal failure.
func statusOf(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrMissingFields),
		errors.Is(err, apperrors.ErrInvalidClearTime),
		errors.Is(err, apperrors.ErrInvalidAvatar):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrInvalidCredential):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrInvalidInviteCode),
		errors.Is(err, apperrors.ErrUserMuted),
		errors.Is(err, apperrors.ErrAdminProtected):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrUserAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail renders err for the client. Internal failures are logged with
// detail and reported only as a generic message plus the error text.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := statusOf(err)
	if code == http.StatusInternalServerError {
		s.logger.Error("Request failed", "path", r.URL.Path, "error", err)
		writeJSON(w, code, map[string]any{"error": "internal server error: " + err.Error()})
		return
	}
	writeJSON(w, code, map[string]any{"error": err.Error()})
}

func (s *Server) ok(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	html := `<!DOCTYPE html>
<html>
<head>
    <title>Chat Gate</title>
    <style>
        body { font-family: Arial, sans-serif; max-width: 800px; margin: 50px auto; padding: 20px; }
        h1 { color: #333; }
        .info { background: #f5f5f5; padding: 15px; border-radius: 5px; margin: 20px 0; }
        code { background: #e8e8e8; padding: 2px 6px; border-radius: 3px; }
    </style>
</head>
<body>
    <h1>Chat Gate</h1>
    <div class="info">
        <p>Invite-gated chat backend.</p>
        <p>Register with <code>POST /register</code>, log in with <code>POST /login</code>,
        read the room with <code>GET /messages</code>.</p>
    </div>
</body>
</html>`
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

func (s *Server) handleNotFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]any{"error": "route not found"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Username   string `json:"username"`
		Password   string `json:"password"`
		Nickname   string `json:"nickname"`
		Avatar     string `json:"avatar"`
		InviteCode string `json:"inviteCode"`
	}
	if err := readJSON(r, &request); err != nil {
		s.fail(w, r, apperrors.ErrMissingFields)
		return
	}
	err := s.accounts.Register(r.Context(), services.RegisterRequest{
		Username:   request.Username,
		Password:   request.Password,
		Nickname:   request.Nickname,
		Avatar:     request.Avatar,
		InviteCode: request.InviteCode,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &request); err != nil {
		s.fail(w, r, apperrors.ErrMissingFields)
		return
	}
	user, err := s.accounts.Login(r.Context(), request.Username, request.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := s.chat.Messages(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Username string `json:"username"`
		Message  string `json:"message"`
	}
	if err := readJSON(r, &request); err != nil {
		s.fail(w, r, apperrors.ErrMissingFields)
		return
	}
	if err := s.chat.Send(r.Context(), request.Username, request.Message); err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w)
}

func (s *Server) handleUserList(w http.ResponseWriter, r *http.Request) {
	users, err := s.accounts.Users(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleGetClearTime(w http.ResponseWriter, r *http.Request) {
	clearTime, err := s.retention.ClearTime(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"time": clearTime})
}

func (s *Server) handleSetClearTime(w http.ResponseWriter, r *http.Request) {
	var request struct {
		// Pointer distinguishes a missing field from an explicit zero.
		Time *int64 `json:"time"`
	}
	if err := readJSON(r, &request); err != nil || request.Time == nil {
		s.fail(w, r, apperrors.ErrInvalidClearTime)
		return
	}
	if err := s.retention.SetClearTime(r.Context(), *request.Time); err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w)
}

func (s *Server) handleClearMessages(w http.ResponseWriter, r *http.Request) {
	if err := s.chat.Clear(r.Context()); err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w)
}

// usernamePayload covers every moderation endpoint taking one username.
type usernamePayload struct {
	Username string `json:"username"`
}

func (s *Server) handleMute(w http.ResponseWriter, r *http.Request) {
	var request usernamePayload
	if err := readJSON(r, &request); err != nil {
		s.fail(w, r, apperrors.ErrMissingFields)
		return
	}
	if err := s.moderation.Mute(r.Context(), request.Username); err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w)
}

func (s *Server) handleUnmute(w http.ResponseWriter, r *http.Request) {
	var request usernamePayload
	if err := readJSON(r, &request); err != nil {
		s.fail(w, r, apperrors.ErrMissingFields)
		return
	}
	if err := s.moderation.Unmute(r.Context(), request.Username); err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w)
}

func (s *Server) handleMuteList(w http.ResponseWriter, r *http.Request) {
	muted, err := s.moderation.MuteList(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": muted})
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	var request usernamePayload
	if err := readJSON(r, &request); err != nil {
		s.fail(w, r, apperrors.ErrMissingFields)
		return
	}
	if err := s.moderation.Remove(r.Context(), request.Username); err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w)
}

func (s *Server) handleUpdateAvatar(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Username string `json:"username"`
		Avatar   string `json:"avatar"`
	}
	if err := readJSON(r, &request); err != nil {
		s.fail(w, r, apperrors.ErrMissingFields)
		return
	}
	if err := s.accounts.UpdateAvatar(r.Context(), request.Username, request.Avatar); err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w)
}

func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Username    string `json:"username"`
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := readJSON(r, &request); err != nil {
		s.fail(w, r, apperrors.ErrMissingFields)
		return
	}
	if err := s.accounts.UpdatePassword(r.Context(), request.Username, request.OldPassword, request.NewPassword); err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w)
}
