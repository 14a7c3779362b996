package like

import (
	"errors"
	"io"
	"net/http"

	"bookcatalog/internal/book"
	"bookcatalog/internal/httpx"

	"go.uber.org/zap"
)

const CodeAlreadyLiked = "ALREADY_LIKED"

type HTTPHandler struct {
	service *Service
	log     *zap.Logger
}

func NewHTTPHandler(service *Service, log *zap.Logger) *HTTPHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &HTTPHandler{service: service, log: log.Named("like")}
}

type likeReq struct {
	UserID string `json:"userId"`
}

type likeResp struct {
	Message    string      `json:"message,omitempty"`
	LikedBooks []book.Book `json:"likedBooks"`
}

// actingUser resolves the user a like request acts for. The token subject is
// authoritative; a body userId must agree with it.
func actingUser(r *http.Request) (string, error) {
	id, ok := httpx.IdentityFrom(r)
	if !ok {
		return "", ErrIdentityClash
	}
	var req likeReq
	if err := httpx.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if req.UserID != "" && req.UserID != id.UserID {
		return "", ErrIdentityClash
	}
	return id.UserID, nil
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidID):
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeBadRequest, "Invalid id", nil)
	case errors.Is(err, ErrAlreadyLiked):
		httpx.JSONError(w, r, http.StatusBadRequest, CodeAlreadyLiked, "Book is already liked", nil)
	case errors.Is(err, ErrUserNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, httpx.CodeNotFound, "User not found", nil)
	case errors.Is(err, ErrBookNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, httpx.CodeNotFound, "Book not found", nil)
	case errors.Is(err, ErrIdentityClash):
		httpx.JSONError(w, r, http.StatusForbidden, httpx.CodeForbidden, "Cannot act for another user", nil)
	default:
		h.log.Error("like request failed", zap.Error(err), zap.String("request_id", httpx.RequestIDFrom(r)))
		httpx.InternalError(w, r)
	}
}

// Like handles POST /books/{id}/like
// @Summary Like a book
// @Tags likes
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Book ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /books/{id}/like [post]
func (h *HTTPHandler) Like(w http.ResponseWriter, r *http.Request) {
	userID, err := actingUser(r)
	if err != nil {
		if !errors.Is(err, ErrIdentityClash) {
			httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeBadRequest, "Invalid request body", nil)
			return
		}
		h.writeError(w, r, err)
		return
	}

	books, err := h.service.Like(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, likeResp{Message: "Book liked successfully", LikedBooks: books}, nil)
}

// Unlike handles POST /books/{id}/unlike
// @Summary Unlike a book
// @Tags likes
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Book ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Router /books/{id}/unlike [post]
func (h *HTTPHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	userID, err := actingUser(r)
	if err != nil {
		if !errors.Is(err, ErrIdentityClash) {
			httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeBadRequest, "Invalid request body", nil)
			return
		}
		h.writeError(w, r, err)
		return
	}

	books, err := h.service.Unlike(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, likeResp{Message: "Book unliked successfully", LikedBooks: books}, nil)
}

// LikedBooks handles GET /users/{id}/liked_books
// @Summary A user's liked books
// @Tags likes
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /users/{id}/liked_books [get]
func (h *HTTPHandler) LikedBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.LikedBooks(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, likeResp{LikedBooks: books}, nil)
}
