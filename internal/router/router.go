package router

import (
	"inkwell/internal/db"
	"inkwell/internal/handlers"
	"inkwell/internal/middleware"
	"inkwell/internal/services"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	postService := services.NewPostService(db.DB)
	commentService := services.NewCommentService(db.DB)
	groupService := services.NewGroupService(db.DB)
	userService := services.NewUserService(db.DB)
	feedService := services.NewFeedService(db.DB)

	postHandler := handlers.NewPostHandler(postService, commentService, groupService)
	userHandler := handlers.NewUserHandler(userService, postService, commentService, feedService)

	// Public routes
	r.GET("/", postHandler.List)                  // All posts, newest first
	r.GET("/group/:slug", postHandler.ListByGroup) // One group's posts
	r.GET("/p/:id", postHandler.Detail)           // Post detail, bumps the view counter
	r.GET("/u/:username", userHandler.Profile)    // Author page

	// Protected routes
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/new", postHandler.ShowCreate)
		authorized.POST("/new", postHandler.Create)
		authorized.GET("/p/:id/edit", postHandler.ShowEdit) // Author only
		authorized.POST("/p/:id/edit", postHandler.Update)
		authorized.POST("/p/:id/delete", postHandler.Delete)
		authorized.POST("/p/:id/comment", postHandler.CreateComment)
		authorized.POST("/p/:id/comment/:cid/delete", postHandler.DeleteComment)

		authorized.POST("/u/:username/follow", userHandler.Follow)
		authorized.POST("/u/:username/unfollow", userHandler.Unfollow)
		authorized.GET("/feed", userHandler.Feed)
	}
}
