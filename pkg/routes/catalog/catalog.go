package catalog

import (
	"net/http"

	"github.com/Gobusters/ectoinject"
	"github.com/Ramsey-B/fern/internal/services/preprocess"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/labstack/echo/v4"
)

// GetFilters lists the filter catalog: key, display name, description and
// default parameters for each available filter.
func GetFilters(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "catalog.GetFilters")
	defer span.End()

	_, service, err := ectoinject.GetContext[*preprocess.Service](ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, service.Catalog())
}
