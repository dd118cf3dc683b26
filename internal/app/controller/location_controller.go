package controller

import (
	"net/http"

	"github.com/Nil9n/merchshop-backend/internal/app/service"
	apperrors "github.com/Nil9n/merchshop-backend/internal/errors"
	"github.com/Nil9n/merchshop-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// LocationController serves the autocomplete endpoints behind the
// checkout form's city and country fields.
type LocationController struct {
	locationService service.LocationService
}

func NewLocationController(locationService service.LocationService) *LocationController {
	return &LocationController{
		locationService: locationService,
	}
}

// SuggestCities returns city name suggestions for a prefix
// GET /api/v1/locations/cities?term=<prefix>
func (ctrl *LocationController) SuggestCities(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	names, err := ctrl.locationService.SuggestCities(c.Query("term"))
	if err != nil {
		log.Error("City suggestion failed", err, map[string]interface{}{
			"term": c.Query("term"),
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"suggestions": names,
	})
}

// SuggestCountries returns country name suggestions for a prefix
// GET /api/v1/locations/countries?term=<prefix>
func (ctrl *LocationController) SuggestCountries(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	names, err := ctrl.locationService.SuggestCountries(c.Query("term"))
	if err != nil {
		log.Error("Country suggestion failed", err, map[string]interface{}{
			"term": c.Query("term"),
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"suggestions": names,
	})
}
