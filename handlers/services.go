package handlers

import (
	"net/http"

	"barberbook/middleware"
	"barberbook/models"
	"barberbook/services/booking"
	"barberbook/services/category"
	"barberbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CatalogHandler serves the shop catalog and the device's last active category.
type CatalogHandler struct {
	BookingSvc booking.BookingSessionService
	Categories *category.Cache
	Logger     *zap.Logger
}

func NewCatalogHandler(svc booking.BookingSessionService, categories *category.Cache, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{BookingSvc: svc, Categories: categories, Logger: logger}
}

type catalogService struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Price          string `json:"price"`
	EffectivePrice string `json:"effectivePrice"`
	Duration       int    `json:"duration"`
	DisplayOrder   int    `json:"displayOrder"`
}

type catalogCategory struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Services []catalogService `json:"services"`
}

func localizeCatalog(grouped []models.CategoryServices, lang models.Language) []catalogCategory {
	out := make([]catalogCategory, 0, len(grouped))
	for _, g := range grouped {
		cat := catalogCategory{
			ID:       g.Category.ID,
			Name:     g.Category.Name(lang),
			Services: make([]catalogService, 0, len(g.Services)),
		}
		for _, s := range g.Services {
			cat.Services = append(cat.Services, catalogService{
				ID:             s.ID,
				Name:           s.Name(lang),
				Price:          utils.DisplayAmount(s.Price),
				EffectivePrice: utils.DisplayAmount(booking.EffectivePrice(s)),
				Duration:       s.Duration,
				DisplayOrder:   s.DisplayOrder,
			})
		}
		out = append(out, cat)
	}
	return out
}

// GetServices handles GET /api/catalog/:shopID/services.
func (h *CatalogHandler) GetServices(c *gin.Context) {
	shopID := c.Param("shopID")
	grouped, err := h.BookingSvc.GetCatalog(c.Request.Context(), shopID)
	if err != nil {
		h.Logger.Error("GetServices: failed to fetch catalog", zap.String("shopID", shopID), zap.Error(err))
		writeServiceError(c, "GetServices", err)
		return
	}

	lang := requestLanguage(c)
	c.JSON(http.StatusOK, gin.H{
		"language":   lang,
		"categories": localizeCatalog(grouped, lang),
	})
}

// GetActiveCategory handles GET /api/catalog/:shopID/active-category. Without a
// cached value the first category of the catalog is returned.
func (h *CatalogHandler) GetActiveCategory(c *gin.Context) {
	shopID := c.Param("shopID")

	def := ""
	grouped, err := h.BookingSvc.GetCatalog(c.Request.Context(), shopID)
	if err != nil {
		h.Logger.Warn("GetActiveCategory: catalog unavailable", zap.String("shopID", shopID), zap.Error(err))
	} else if len(grouped) > 0 {
		def = grouped[0].Category.ID
	}

	key, ok := categoryKey(c, shopID)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"categoryId": def})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categoryId": h.Categories.Get(c.Request.Context(), key, def)})
}

// categoryKey returns the cache key of the calling device. Anonymous callers
// are not cached.
func categoryKey(c *gin.Context, shopID string) (string, bool) {
	deviceID := c.GetString("deviceID")
	if deviceID == "" || deviceID == middleware.AnonymousDevice {
		return "", false
	}
	return category.Key(shopID, deviceID), true
}

// SetActiveCategory handles PUT /api/catalog/:shopID/active-category.
func (h *CatalogHandler) SetActiveCategory(c *gin.Context) {
	var input struct {
		CategoryID string `json:"categoryId" binding:"required"`
	}
	if !bindJSON(c, &input) {
		return
	}
	if key, ok := categoryKey(c, c.Param("shopID")); ok {
		h.Categories.Set(c.Request.Context(), key, input.CategoryID)
	}
	c.JSON(http.StatusOK, gin.H{"categoryId": input.CategoryID})
}
