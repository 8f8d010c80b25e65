package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"selfhelpblog/internal/db"
	"selfhelpblog/internal/models"
	"selfhelpblog/internal/services"
	"selfhelpblog/internal/utils"

	"github.com/gin-gonic/gin"
)

const detailCacheTTL = 5 * time.Minute

func detailCacheKey(articleID uint) string {
	return fmt.Sprintf("article:detail:%d", articleID)
}

type ArticleHandler struct {
	store *db.Store
	cache *utils.RenderCache
	likes services.LikeCounter
}

func NewArticleHandler(store *db.Store, cache *utils.RenderCache, likes services.LikeCounter) *ArticleHandler {
	return &ArticleHandler{store: store, cache: cache, likes: likes}
}

func (h *ArticleHandler) Home(c *gin.Context) {
	Render(c, http.StatusOK, "index.html", gin.H{"Title": "Home"})
}

// List shows every article, unpaginated.
func (h *ArticleHandler) List(c *gin.Context) {
	articles, err := h.store.ListArticles(c.Request.Context())
	if err != nil {
		renderFailure(c, err, "")
		return
	}

	Render(c, http.StatusOK, "articles/list.html", gin.H{
		"Title":    "Articles",
		"Articles": articles,
	})
}

func (h *ArticleHandler) Detail(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		renderFailure(c, err, "Article not found")
		return
	}

	cacheKey := detailCacheKey(id)
	if cachedData := h.cache.Get(cacheKey); cachedData != nil {
		if hData, ok := cachedData.(gin.H); ok {
			// 缓存的是共享数据，复制一份再注入当前用户
			Render(c, http.StatusOK, "articles/detail.html", copyH(hData))
			return
		}
	}

	ctx := c.Request.Context()
	article, err := h.store.GetArticle(ctx, id)
	if err != nil {
		renderFailure(c, err, "Article not found")
		return
	}

	comments, err := h.store.CommentsByArticle(ctx, article.ID)
	if err != nil {
		renderFailure(c, err, "")
		return
	}

	h.applyCounterLikes(ctx, comments)

	renderData := gin.H{
		"Title":       article.Title,
		"Article":     article,
		"ContentHTML": utils.RenderMarkdown(article.Content),
		"Comments":    comments,
	}
	h.cache.Set(cacheKey, renderData, detailCacheTTL)

	Render(c, http.StatusOK, "articles/detail.html", copyH(renderData))
}

// applyCounterLikes prefers the like counter over the row counts for every
// comment the counter knows about.
func (h *ArticleHandler) applyCounterLikes(ctx context.Context, comments []models.Comment) {
	for i := range comments {
		n, known, err := h.likes.Count(comments[i].ID)
		if err != nil {
			slog.WarnContext(ctx, "like counter read failed",
				slog.Uint64("comment_id", uint64(comments[i].ID)), slog.String("error", err.Error()))
			continue
		}
		if known {
			comments[i].LikeCount = int(n)
		}
	}
}

func copyH(src gin.H) gin.H {
	dst := make(gin.H, len(src)+2)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
