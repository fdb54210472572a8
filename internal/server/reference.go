package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	geodomain "github.com/smallbiznis/geodata/internal/geo/domain"
	"github.com/smallbiznis/geodata/internal/i18n"
)

type referenceItem struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var currencyMessages = map[geodomain.Currency]string{
	geodomain.CurrencyColombianPeso: i18n.MsgCurrencyColombianPeso,
	geodomain.CurrencyEuro:          i18n.MsgCurrencyEuro,
	geodomain.CurrencyDollar:        i18n.MsgCurrencyDollar,
}

func (s *Server) ListLanguages(c *gin.Context) {
	tag := uiLanguage(c)
	items := make([]referenceItem, 0)
	for _, code := range geodomain.LanguageCodes() {
		items = append(items, referenceItem{Code: code, Name: i18n.LanguageName(tag, code)})
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) ListCurrencies(c *gin.Context) {
	p := printer(c)
	items := make([]referenceItem, 0)
	for _, currency := range geodomain.Currencies() {
		name := currency.Label()
		if key, ok := currencyMessages[currency]; ok {
			name = p.Sprintf(key)
		}
		items = append(items, referenceItem{Code: string(currency), Name: name})
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}
