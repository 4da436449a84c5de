package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"finai/internal/assistant"
	"finai/internal/assistant/service"
	dErrors "finai/pkg/domain-errors"
	"finai/pkg/platform/httputil"
	"finai/pkg/requestcontext"
)

// maxUploadBytes bounds multipart uploads; the content is read and dropped.
const maxUploadBytes = 10 << 20

// Service defines the interface for assistant operations.
type Service interface {
	Chat(ctx context.Context, chatID, message string) (service.ChatReply, error)
	Sessions(ctx context.Context) ([]assistant.Session, error)
	History(ctx context.Context, chatID string) ([]assistant.Message, error)
	RecordUpload(ctx context.Context, chatID, filename string) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts assistant endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/assistant", func(r chi.Router) {
		r.Post("/chat", h.HandleChat)
		r.Get("/sessions", h.HandleSessions)
		r.Get("/history/{chatID}", h.HandleHistory)
		r.Post("/upload/{chatID}", h.HandleUpload)
	})
}

// HandleChat handles POST /assistant/chat requests.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ChatRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	reply, err := h.service.Chat(ctx, req.ChatID, req.Message)
	if err != nil {
		h.logger.ErrorContext(ctx, "assistant chat failed",
			"request_id", requestID,
			"chat_id", req.ChatID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ChatResponse{ChatID: reply.ChatID, Reply: reply.Reply})
}

// HandleSessions handles GET /assistant/sessions requests.
func (h *Handler) HandleSessions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessions, err := h.service.Sessions(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list chat sessions",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toSessionResponses(sessions))
}

// HandleHistory handles GET /assistant/history/{chatID} requests.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	chatID := chi.URLParam(r, "chatID")

	msgs, err := h.service.History(ctx, chatID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to read chat history",
			"request_id", requestcontext.RequestID(ctx),
			"chat_id", chatID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toMessageResponses(msgs))
}

// HandleUpload handles POST /assistant/upload/{chatID} requests.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	chatID := chi.URLParam(r, "chatID")

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		h.logger.WarnContext(ctx, "invalid upload",
			"request_id", requestID,
			"chat_id", chatID,
			"error", err,
		)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.WriteError(w, dErrors.NewField(dErrors.CodeValidation, "file", "file exceeds 10 MiB"))
			return
		}
		httputil.WriteError(w, dErrors.NewField(dErrors.CodeBadRequest, "file", "multipart field file is required"))
		return
	}
	defer file.Close()
	if _, err := io.Copy(io.Discard, file); err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "failed to read upload"))
		return
	}

	if err := h.service.RecordUpload(ctx, chatID, header.Filename); err != nil {
		h.logger.ErrorContext(ctx, "failed to record upload",
			"request_id", requestID,
			"chat_id", chatID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, UploadResponse{Message: "Uploaded successfully"})
}
