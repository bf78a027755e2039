package http

import (
	"encoding/json"
	"log"
	"net/url"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/MinkyAI/reviews-platform-sub001/internal/domain"
)

const (
	requestBodyLogKey  = "http.request.body.summary"
	responseBodyLogKey = "http.response.body.summary"
	maxLoggedBody      = 2048
)

// redactedKeys marks body fields that must never reach a log line. Tokens are
// bearer credentials and passwords speak for themselves.
var redactedKeys = []string{"password", "token", "secret"}

func registerLogging(e *echo.Echo) {
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			userID := "anonymous"
			if info, ok := c.Get(contextSessionKey).(*domain.SessionInfo); ok && info != nil {
				userID = info.UserID.String()
			} else if ident, ok := CurrentAdmin(c); ok && ident != nil {
				userID = "admin:" + ident.Subject
			}

			payload := struct {
				Time      string `json:"time"`
				UserID    string `json:"user_id"`
				LatencyMS int64  `json:"latency_ms"`
				Request   struct {
					Method string      `json:"method"`
					URI    string      `json:"uri"`
					Body   interface{} `json:"body,omitempty"`
				} `json:"request"`
				Response struct {
					Status int         `json:"status"`
					Body   interface{} `json:"body,omitempty"`
					Error  string      `json:"error,omitempty"`
				} `json:"response"`
			}{
				Time:      v.StartTime.Format(time.RFC3339),
				UserID:    userID,
				LatencyMS: v.Latency.Milliseconds(),
			}

			payload.Request.Method = v.Method
			payload.Request.URI = sanitizeURI(v.URI)
			if summary := c.Get(requestBodyLogKey); summary != nil {
				payload.Request.Body = summary
			}

			payload.Response.Status = v.Status
			if summary := c.Get(responseBodyLogKey); summary != nil {
				payload.Response.Body = summary
			}
			if v.Error != nil {
				payload.Response.Error = v.Error.Error()
			}

			buf, err := json.Marshal(payload)
			if err != nil {
				return err
			}
			log.Println(string(buf))
			return nil
		},
	}))

	e.Use(middleware.BodyDump(func(c echo.Context, reqBody, resBody []byte) {
		if summary := sanitizeBody(reqBody, c.Request().Header.Get(echo.HeaderContentType)); summary != nil {
			c.Set(requestBodyLogKey, summary)
		}
		if summary := sanitizeBody(resBody, c.Response().Header().Get(echo.HeaderContentType)); summary != nil {
			c.Set(responseBodyLogKey, summary)
		}
	}))
}

// sanitizeURI strips token query parameters; reset-verify carries the raw
// reset token in its query string.
func sanitizeURI(uri string) string {
	parsed, err := url.Parse(uri)
	if err != nil {
		return uri
	}
	values := parsed.Query()
	changed := false
	for key := range values {
		if isRedactedKey(key) {
			values.Set(key, "redacted")
			changed = true
		}
	}
	if !changed {
		return uri
	}
	parsed.RawQuery = values.Encode()
	return parsed.String()
}

func sanitizeBody(body []byte, contentType string) interface{} {
	if len(body) == 0 {
		return nil
	}

	loweredType := strings.ToLower(strings.TrimSpace(contentType))
	if strings.HasPrefix(loweredType, "multipart/form-data") {
		return "multipart"
	}

	if strings.HasPrefix(loweredType, "application/json") || json.Valid(body) {
		var data interface{}
		if err := json.Unmarshal(body, &data); err == nil {
			return clampSummary(sanitizeJSON(data, ""))
		}
	}

	if strings.HasPrefix(loweredType, "application/x-www-form-urlencoded") {
		if values, err := url.ParseQuery(string(body)); err == nil && len(values) > 0 {
			sanitized := make(map[string]interface{}, len(values))
			for key, vals := range values {
				if isRedactedKey(key) {
					sanitized[key] = "redacted"
					continue
				}
				if len(vals) == 1 {
					sanitized[key] = clampString(vals[0])
				} else {
					sanitized[key] = vals
				}
			}
			return clampSummary(sanitized)
		}
	}

	if containsBinaryBytes(body) {
		return "binary"
	}
	text := string(body)
	for _, key := range redactedKeys {
		if strings.Contains(strings.ToLower(text), key) {
			return "redacted"
		}
	}
	return clampString(text)
}

func sanitizeJSON(value interface{}, keyHint string) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		result := make(map[string]interface{}, len(v))
		for key, val := range v {
			if isRedactedKey(key) {
				result[key] = "redacted"
				continue
			}
			result[key] = sanitizeJSON(val, strings.ToLower(key))
		}
		return result
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = sanitizeJSON(item, keyHint)
		}
		return result
	case string:
		if isRedactedKey(keyHint) {
			return "redacted"
		}
		return clampString(v)
	default:
		return v
	}
}

func isRedactedKey(key string) bool {
	lowered := strings.ToLower(key)
	for _, marker := range redactedKeys {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

func clampSummary(value interface{}) interface{} {
	buf, err := json.Marshal(value)
	if err != nil {
		return value
	}
	if len(buf) <= maxLoggedBody {
		return value
	}
	return map[string]interface{}{"_truncated": true}
}

func containsBinaryBytes(data []byte) bool {
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			return true
		}
		if !unicode.IsPrint(r) && !unicode.IsSpace(r) {
			return true
		}
		data = data[size:]
	}
	return false
}

func clampString(value string) string {
	if len(value) <= maxLoggedBody {
		return value
	}
	truncated := value[:maxLoggedBody]
	for !utf8.ValidString(truncated) && len(truncated) > 0 {
		truncated = truncated[:len(truncated)-1]
	}
	return truncated + "...(truncated)"
}
