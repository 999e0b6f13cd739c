package v1

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/aneeshsrinivas/academy-api/internal/auth"
	"github.com/aneeshsrinivas/academy-api/internal/config"
	"github.com/aneeshsrinivas/academy-api/internal/models"
	"github.com/aneeshsrinivas/academy-api/internal/service"
	"github.com/aneeshsrinivas/academy-api/internal/store"
	"github.com/aneeshsrinivas/academy-api/internal/utils"
)

type ChatHandler struct {
	cfg    *config.Config
	chats  *service.ChatService
	store  *store.Store
	r2     *utils.R2Storage
	logger *zap.Logger

	upgrader websocket.Upgrader
}

func NewChatHandler(cfg *config.Config, chats *service.ChatService, s *store.Store, r2 *utils.R2Storage, logger *zap.Logger) *ChatHandler {
	allowed := map[string]struct{}{}
	for _, o := range cfg.AllowedOrigins {
		allowed[o] = struct{}{}
	}
	return &ChatHandler{
		cfg:    cfg,
		chats:  chats,
		store:  s,
		r2:     r2,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

// GET /chats/{id}/messages
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.chats.History(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, true, "success", msgs, nil)
}

// POST /chats/{id}/messages
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	current := auth.GetUserFromCtx(r.Context())
	if current == nil {
		utils.WriteJSONResponse(w, http.StatusUnauthorized, false, "unauthorized", nil, nil)
		return
	}
	var payload struct {
		Content string `json:"content"`
		FileURL string `json:"file_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "invalid request", nil, err.Error())
		return
	}
	m, err := h.chats.SendMessage(r.Context(), chi.URLParam(r, "id"), current.ID, current.FullName, current.Role, payload.Content, payload.FileURL)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusCreated, true, "message sent", m, nil)
}

// POST /chats/{id}/attachments — multipart upload, returns a presigned URL
func (h *ChatHandler) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	if h.r2 == nil {
		utils.WriteJSONResponse(w, http.StatusServiceUnavailable, false, "file storage not configured", nil, nil)
		return
	}
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "invalid multipart form", nil, err.Error())
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "missing file", nil, err.Error())
		return
	}
	defer file.Close()

	chatID := chi.URLParam(r, "id")
	key, err := h.r2.SaveFile(r.Context(), "chat-attachments/"+chatID, header.Filename, file)
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "upload failed", nil, err.Error())
		return
	}
	url, err := h.r2.PresignGetObject(r.Context(), key, 7*24*time.Hour)
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "presign failed", nil, err.Error())
		return
	}
	utils.WriteJSONResponse(w, http.StatusCreated, true, "uploaded", map[string]string{
		"object_key": key,
		"file_url":   url,
	}, nil)
}

// Listen upgrades to a websocket and pushes the full ordered message list on
// connect and on every append. Browsers cannot set an Authorization header
// on a websocket handshake, so the access token rides a query parameter.
func (h *ChatHandler) Listen(w http.ResponseWriter, r *http.Request) {
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		utils.WriteJSONResponse(w, http.StatusUnauthorized, false, "missing token", nil, nil)
		return
	}
	claims, err := auth.ParseAndValidateToken(h.cfg, tokenStr)
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusUnauthorized, false, "invalid token", nil, nil)
		return
	}
	u, err := h.store.GetUserByID(r.Context(), claims.UserID)
	if err != nil || !u.Active {
		utils.WriteJSONResponse(w, http.StatusUnauthorized, false, "user not found", nil, nil)
		return
	}

	chatID := chi.URLParam(r, "id")
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer ws.Close()

	var wsWriteErr error
	unsubscribe, err := h.chats.ListenToMessages(r.Context(), chatID, func(msgs []*models.ChatMessage) {
		if wsWriteErr == nil {
			wsWriteErr = ws.WriteJSON(msgs)
		}
	})
	if err != nil {
		_ = ws.WriteJSON(map[string]string{"error": err.Error()})
		return
	}
	defer unsubscribe()

	// read loop only to notice the peer going away
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			return
		}
	}
}
