package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/geodata/internal/i18n"
	searchdomain "github.com/smallbiznis/geodata/internal/search/domain"
)

func (s *Server) SearchCities(c *gin.Context) {
	lang := c.Param("language")

	cities, err := s.searchSvc.Search(c.Request.Context(), searchdomain.SearchRequest{
		Language:      lang,
		ExtraLanguage: c.Query("extra_lang"),
		Q:             c.Query("q"),
		Country:       c.Query("country"),
		Currency:      c.Query("currency"),
		Limit:         parseLimit(c.Query("limit")),
	})
	if errors.Is(err, searchdomain.ErrUnsupportedLanguage) {
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": printer(c).Sprintf(i18n.MsgUnsupportedLanguage, lang)})
		return
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, cities)
}
