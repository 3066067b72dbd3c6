package api

import (
	"net/http"

	checkoutHandler "subscribe-server/internal/checkout/handler"

	"github.com/gin-gonic/gin"
)

type API struct {
	router          *gin.RouterGroup
	checkoutHandler checkoutHandler.Handler
	authMiddleware  gin.HandlerFunc
}

// New wires the route tree. authMiddleware may be nil, in which case the
// subscribe endpoint is public.
func New(router *gin.RouterGroup, handler checkoutHandler.Handler, authMiddleware gin.HandlerFunc) API {
	return API{
		router:          router,
		checkoutHandler: handler,
		authMiddleware:  authMiddleware,
	}
}

func (a *API) RegisterRoutes() {
	a.Health()
	if a.authMiddleware != nil {
		a.router.POST("/subscribe", a.authMiddleware, a.checkoutHandler.HandleSubscribe)
		return
	}
	a.router.POST("/subscribe", a.checkoutHandler.HandleSubscribe)
}

func (a *API) Health() {
	a.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
}
