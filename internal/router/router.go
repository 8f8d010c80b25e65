package router

import (
	"log/slog"

	"selfhelpblog/internal/app"
	"selfhelpblog/internal/handlers"
	"selfhelpblog/internal/middleware"
	"selfhelpblog/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const sessionName = "selfhelpblog_session"

// New builds the engine with sessions, templates and every route.
func New(a *app.App, logger *slog.Logger) (*gin.Engine, error) {
	r := gin.New()
	r.Use(middleware.RequestLogger(logger), gin.Recovery())

	store := cookie.NewStore([]byte(a.Config.SecretKey))
	store.Options(sessions.Options{Path: "/", MaxAge: 86400 * 30, HttpOnly: true})
	r.Use(sessions.Sessions(sessionName, store))

	renderer, err := utils.LoadTemplates(a.Config.TemplatesDir)
	if err != nil {
		return nil, err
	}
	r.HTMLRender = renderer

	if a.Config.StaticDir != "" {
		r.Static("/static", a.Config.StaticDir)
	}

	r.Use(middleware.LoadUser(a.Store))

	RegisterRoutes(r, a)
	return r, nil
}

func RegisterRoutes(r *gin.Engine, a *app.App) {
	authHandler := handlers.NewAuthHandler(a.Store, a.Identity)
	articleHandler := handlers.NewArticleHandler(a.Store, a.Cache, a.Likes)
	commentHandler := handlers.NewCommentHandler(a.Store, a.Cache, a.Likes)

	// 公共路由 (Public Routes)
	r.GET("/", articleHandler.Home)
	r.GET("/articles", articleHandler.List)
	r.GET("/articles/:id", articleHandler.Detail)

	r.GET("/login", authHandler.Login)                           // 登录入口，授权后回到这里
	r.GET("/login/google", authHandler.GoogleLogin)              // 跳转 Google 授权页
	r.GET("/login/google/authorized", authHandler.GoogleCallback) // Google 回调
	r.GET("/logout", authHandler.Logout)

	// 受保护路由 (Protected Routes)
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/articles/:id/comment", commentHandler.Create) // 发表评论
		authorized.GET("/comments/:id/like", commentHandler.Like)       // 点赞评论
	}
}
