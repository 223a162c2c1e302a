package favorite

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterCustomerRoutes(rg *gin.RouterGroup) {
	favorites := rg.Group("/favorites")
	{
		favorites.GET("", h.GetFavorites)
		favorites.POST("/:trekId", h.AddFavorite)
		favorites.DELETE("/:trekId", h.RemoveFavorite)
		favorites.GET("/:trekId/check", h.CheckFavorite)
	}
}
