package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/inkwell-backend/internal/middleware"
	"github.com/AnshRaj112/inkwell-backend/internal/models"
	"github.com/AnshRaj112/inkwell-backend/internal/services"
)

// PostHandler serves /api/posts and /api/comments.
type PostHandler struct {
	posts    *services.PostService
	comments *services.CommentService
}

func NewPostHandler(posts *services.PostService, comments *services.CommentService) *PostHandler {
	return &PostHandler{posts: posts, comments: comments}
}

func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	writeJSON(w, http.StatusOK, DataResponse{Success: true, Data: posts})
}

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DataResponse{Success: true, Data: post})
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.PostInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeServiceError(w, r, err)
		return
	}
	post, err := h.posts.Create(r.Context(), middleware.UserFromContext(r.Context()), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, DataResponse{Success: true, Message: "Post created", Data: post})
}

func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in models.PostInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeServiceError(w, r, err)
		return
	}
	post, err := h.posts.Update(r.Context(), middleware.UserFromContext(r.Context()), chi.URLParam(r, "id"), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DataResponse{Success: true, Message: "Post updated", Data: post})
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.posts.Delete(r.Context(), middleware.UserFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DataResponse{Success: true, Message: "Post deleted"})
}

// CreateComment handles POST /api/posts/{postID}/comments.
func (h *PostHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	var in models.CommentInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeServiceError(w, r, err)
		return
	}
	c, err := h.comments.Create(r.Context(), middleware.UserFromContext(r.Context()), chi.URLParam(r, "postID"), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, DataResponse{Success: true, Message: "Comment added", Data: c})
}

func (h *PostHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	var in models.CommentInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeServiceError(w, r, err)
		return
	}
	c, err := h.comments.Update(r.Context(), middleware.UserFromContext(r.Context()), chi.URLParam(r, "id"), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DataResponse{Success: true, Message: "Comment updated", Data: c})
}

func (h *PostHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := h.comments.Delete(r.Context(), middleware.UserFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DataResponse{Success: true, Message: "Comment deleted"})
}
