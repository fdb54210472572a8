package server

import (
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/geodata/internal/i18n"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	contextLanguageKey = "ui_language"
	contextPrinterKey  = "printer"
)

// Localizer picks the message printer for the request from Accept-Language.
func Localizer() gin.HandlerFunc {
	return func(c *gin.Context) {
		tag := i18n.Match(c.GetHeader("Accept-Language"))
		c.Set(contextLanguageKey, tag)
		c.Set(contextPrinterKey, i18n.Printer(tag))
		c.Next()
	}
}

func uiLanguage(c *gin.Context) language.Tag {
	if v, ok := c.Get(contextLanguageKey); ok {
		if tag, ok := v.(language.Tag); ok {
			return tag
		}
	}
	return i18n.Supported[0]
}

func printer(c *gin.Context) *message.Printer {
	if v, ok := c.Get(contextPrinterKey); ok {
		if p, ok := v.(*message.Printer); ok {
			return p
		}
	}
	return i18n.Printer(i18n.Supported[0])
}
