package middleware

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/notes-backend/internal/config"
)

// unhandledBody is the generic body for failures that carry no status of
// their own, and for framework-level 404/405s.
type unhandledBody struct {
	Status  bool   `json:"status"`
	Data    any    `json:"data"`
	Message string `json:"message"`
}

// Errors turns errors left on c.Errors by handlers into the generic 500 when
// nothing has been written yet. CORS headers are reattached since this
// response does not go through the CORS middleware's normal path.
func Errors(cfg *config.Config, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Unhandled exception")
		writeUnhandled(c, cfg, err)
	}
}

// Recovery converts a panic into the generic 500.
func Recovery(cfg *config.Config, log zerolog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		err := fmt.Errorf("%v", recovered)
		log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Recovered from panic")
		writeUnhandled(c, cfg, err)
	})
}

// NotFound and MethodNotAllowed answer unknown routes in the same envelope.
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, unhandledBody{Message: "Not Found"})
}

func MethodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, unhandledBody{Message: "Method Not Allowed"})
}

func writeUnhandled(c *gin.Context, cfg *config.Config, err error) {
	reattachCORS(c, cfg)
	c.AbortWithStatusJSON(http.StatusInternalServerError, unhandledBody{
		Message: "Unhandled Exception :: " + err.Error(),
	})
}

func reattachCORS(c *gin.Context, cfg *config.Config) {
	h := c.Writer.Header()
	if h.Get("Access-Control-Allow-Origin") == "" {
		origin := c.GetHeader("Origin")
		switch {
		case cfg.AllowsAllOrigins() && cfg.AllowCredentials && origin != "":
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
		case cfg.AllowsAllOrigins():
			h.Set("Access-Control-Allow-Origin", "*")
		case slices.Contains(cfg.AllowedOrigins, origin):
			h.Set("Access-Control-Allow-Origin", origin)
		}
	}
	h.Set("Access-Control-Allow-Credentials", fmt.Sprint(cfg.AllowCredentials))
}
