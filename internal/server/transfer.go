package server

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	exporterdomain "github.com/smallbiznis/geodata/internal/exporter/domain"
	"github.com/smallbiznis/geodata/internal/i18n"
	importerdomain "github.com/smallbiznis/geodata/internal/importer/domain"
	"github.com/smallbiznis/geodata/internal/tabular"
	"go.uber.org/zap"
)

// defaultSearchPath is where a successful upload lands.
const defaultSearchPath = "/api/cities/en/"

type uploadPage struct {
	Lang         string
	Entity       string
	Action       string
	NeedsCountry bool
	Country      string
	Errors       []string
	TemplateURL  string
}

func (s *Server) UploadForm(entity importerdomain.Entity) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.renderUpload(c, http.StatusOK, entity, strings.TrimSpace(c.Query("country")), nil)
	}
}

func (s *Server) Upload(entity importerdomain.Entity) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := printer(c)
		ctx := c.Request.Context()
		country := strings.TrimSpace(c.PostForm("country"))

		if !s.allowUpload(c) {
			AbortWithError(c, ErrRateLimited)
			return
		}

		header, err := c.FormFile("file")
		if err != nil {
			s.renderUpload(c, http.StatusUnprocessableEntity, entity, country, []string{p.Sprintf(i18n.MsgFileRequired)})
			return
		}
		f, err := header.Open()
		if err != nil {
			AbortWithError(c, err)
			return
		}
		defer f.Close()

		rows, err := tabular.Read(f, header.Filename)
		if err != nil {
			s.log.Warn("unreadable upload",
				zap.String("entity", string(entity)),
				zap.String("filename", header.Filename),
				zap.Error(err),
			)
			s.renderUpload(c, http.StatusUnprocessableEntity, entity, country, []string{p.Sprintf(i18n.MsgUnreadableFile)})
			return
		}

		lease, ok, err := s.limiter.TryLockImport(ctx, string(entity), country)
		switch {
		case err != nil:
			s.log.Warn("import lock unavailable", zap.String("entity", string(entity)), zap.Error(err))
		case !ok:
			AbortWithError(c, ErrImportRunning)
			return
		default:
			defer func() {
				if err := s.limiter.ReleaseImport(context.WithoutCancel(ctx), lease); err != nil {
					s.log.Warn("release import lock", zap.String("entity", string(entity)), zap.Error(err))
				}
			}()
		}

		result, err := s.importerSvc.Import(ctx, importerdomain.Request{
			Entity:      entity,
			CountryCode: country,
			Rows:        rows,
		})
		var verr *importerdomain.ValidationError
		if errors.As(err, &verr) {
			_ = c.Error(err)
			s.renderUpload(c, http.StatusUnprocessableEntity, entity, country, verr.Localize(p))
			return
		}
		if err != nil {
			AbortWithError(c, err)
			return
		}

		if wantsJSON(c) {
			c.JSON(http.StatusOK, result)
			return
		}
		c.Redirect(http.StatusSeeOther, defaultSearchPath)
	}
}

// allowUpload takes a token for the client. A limiter that cannot reach
// Redis lets the upload through.
func (s *Server) allowUpload(c *gin.Context) bool {
	res, err := s.limiter.AllowUpload(c.Request.Context(), c.ClientIP())
	if err != nil {
		s.log.Warn("upload rate limit unavailable", zap.Error(err))
		return true
	}
	if !res.Allowed && res.RetryAfter > 0 {
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(res.RetryAfter.Seconds()))))
	}
	return res.Allowed
}

func (s *Server) renderUpload(c *gin.Context, status int, entity importerdomain.Entity, country string, problems []string) {
	if wantsJSON(c) {
		if problems == nil {
			problems = []string{}
		}
		c.JSON(status, gin.H{"errors": problems})
		return
	}

	templateURL := "/download-" + string(entity) + "/1/"
	if entity.NeedsCountry() && country != "" {
		templateURL += "?country=" + country
	}
	c.HTML(status, uploadTemplateName, uploadPage{
		Lang:         uiLanguage(c).String(),
		Entity:       string(entity),
		Action:       "/upload-" + string(entity) + "/",
		NeedsCountry: entity.NeedsCountry(),
		Country:      country,
		Errors:       problems,
		TemplateURL:  templateURL,
	})
}

func (s *Server) Download(entity importerdomain.Entity) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := printer(c)

		empty, err := parseFlag(c.Param("empty"))
		if err != nil {
			AbortWithError(c, newValidationError("empty", "invalid_empty", "invalid empty flag"))
			return
		}
		format, err := tabular.ParseFormat(c.Query("format"))
		if err != nil {
			c.String(http.StatusBadRequest, p.Sprintf(i18n.MsgUnsupportedFormat, c.Query("format")))
			return
		}

		file, err := s.exporterSvc.Export(c.Request.Context(), exporterdomain.Request{
			Entity:      entity,
			CountryCode: c.Query("country"),
			Empty:       empty,
			Format:      format,
		})
		var missing *exporterdomain.MissingContextError
		if errors.As(err, &missing) {
			c.String(http.StatusBadRequest, missing.Localize(p))
			return
		}
		var refErr *importerdomain.ReferentialError
		if errors.As(err, &refErr) {
			c.String(http.StatusNotFound, refErr.Localize(p))
			return
		}
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Name))
		c.Data(http.StatusOK, file.ContentType(), file.Content)
	}
}

func wantsJSON(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}
