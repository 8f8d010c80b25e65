package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"selfhelpblog/internal/db"
	"selfhelpblog/internal/models"
	"selfhelpblog/internal/services"
	"selfhelpblog/internal/utils"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	store *db.Store
	cache *utils.RenderCache
	likes services.LikeCounter
}

func NewCommentHandler(store *db.Store, cache *utils.RenderCache, likes services.LikeCounter) *CommentHandler {
	return &CommentHandler{store: store, cache: cache, likes: likes}
}

// Create attaches the posted comment to the article as the logged-in user.
// Content is stored as sent, including the empty string.
func (h *CommentHandler) Create(c *gin.Context) {
	user := currentUser(c)
	articleID, err := utils.ParseID(c.Param("id"))
	if err != nil {
		renderFailure(c, err, "Article not found")
		return
	}

	ctx := c.Request.Context()
	if _, err := h.store.GetArticle(ctx, articleID); err != nil {
		renderFailure(c, err, "Article not found")
		return
	}

	comment := models.Comment{
		Content:   c.PostForm("content"),
		UserID:    user.ID,
		ArticleID: articleID,
	}
	if err := h.store.CreateComment(ctx, &comment); err != nil {
		renderFailure(c, err, "")
		return
	}

	// 主动失效详情页缓存
	h.cache.Delete(detailCacheKey(articleID))

	c.Redirect(http.StatusFound, fmt.Sprintf("/articles/%d", articleID))
}

// Like records one more like by the logged-in user. Repeated likes are kept.
func (h *CommentHandler) Like(c *gin.Context) {
	user := currentUser(c)
	commentID, err := utils.ParseID(c.Param("id"))
	if err != nil {
		renderFailure(c, err, "Comment not found")
		return
	}

	ctx := c.Request.Context()
	comment, err := h.store.GetComment(ctx, commentID)
	if err != nil {
		renderFailure(c, err, "Comment not found")
		return
	}

	like := models.Like{UserID: user.ID, CommentID: comment.ID}
	if err := h.store.CreateLike(ctx, &like); err != nil {
		renderFailure(c, err, "")
		return
	}

	// 计数器只是加速读取，失败不影响主流程
	if err := h.syncLikeCounter(ctx, comment.ID); err != nil {
		slog.WarnContext(ctx, "like counter update failed",
			slog.Uint64("comment_id", uint64(comment.ID)), slog.String("error", err.Error()))
	}

	h.cache.Delete(detailCacheKey(comment.ArticleID))

	c.Redirect(http.StatusFound, "/articles")
}

// syncLikeCounter bumps the counter, seeding it from the Like rows the first
// time a comment is seen so it never lags behind the database.
func (h *CommentHandler) syncLikeCounter(ctx context.Context, commentID uint) error {
	_, known, err := h.likes.Count(commentID)
	if err != nil {
		return err
	}
	if known {
		_, err = h.likes.Incr(commentID)
		return err
	}

	counts, err := h.store.CountLikesByComments(ctx, []uint{commentID})
	if err != nil {
		return err
	}
	return h.likes.Set(commentID, int64(counts[commentID]))
}
