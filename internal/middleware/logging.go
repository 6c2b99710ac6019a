// internal/middleware/logging.go
package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/budayachain/budaya-backend/internal/models"
	"github.com/budayachain/budaya-backend/internal/repository"
)

const maxAuditBody = 16 << 10

// AuditLogger records every state-changing request. Writes happen in the
// background; Wait drains them before the store is closed.
type AuditLogger struct {
	audit   repository.AuditRepository
	pending sync.WaitGroup
}

func NewAuditLogger(audit repository.AuditRepository) *AuditLogger {
	return &AuditLogger{audit: audit}
}

// Wait blocks until every queued audit write has finished or ctx is done.
func (l *AuditLogger) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		l.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *AuditLogger) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip reads and health checks
		if c.Request.Method == "GET" || c.Request.Method == "OPTIONS" || c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		// Read request body
		var requestBody []byte
		if c.Request.Body != nil {
			requestBody, _ = io.ReadAll(io.LimitReader(c.Request.Body, maxAuditBody))
			c.Request.Body = readCloser{io.MultiReader(bytes.NewReader(requestBody), c.Request.Body), c.Request.Body}
		}

		c.Next()

		wallet, _ := c.Get("wallet")
		walletStr, _ := wallet.(string)

		var requestData map[string]interface{}
		if len(requestBody) > 0 && strings.HasPrefix(c.ContentType(), "application/json") {
			_ = json.Unmarshal(requestBody, &requestData)
		}
		delete(requestData, "signature")
		delete(requestData, "challenge_token")

		entry := &models.AuditLog{
			Wallet:       walletStr,
			Action:       c.Request.Method + " " + c.Request.URL.Path,
			ResourceType: extractResourceType(c.Request.URL.Path),
			Details:      models.JSONB(requestData),
			StatusCode:   c.Writer.Status(),
			IPAddress:    c.ClientIP(),
			UserAgent:    c.Request.UserAgent(),
		}

		// Extract resource ID from URL if present
		if resourceID := extractResourceID(c.Request.URL.Path); resourceID != "" {
			if parsed, err := uuid.Parse(resourceID); err == nil {
				entry.ResourceID = &parsed
			}
		}

		// Save audit log asynchronously
		l.pending.Add(1)
		go func() {
			defer l.pending.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := l.audit.Create(ctx, entry); err != nil {
				logrus.WithError(err).Error("Failed to create audit log")
			}
		}()
	}
}

// readCloser replays the audited prefix ahead of the unread body.
type readCloser struct {
	io.Reader
	io.Closer
}

func extractResourceType(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) >= 2 && parts[0] == "api" {
		if parts[1] == "admin" && len(parts) >= 3 {
			return parts[2]
		}
		return parts[1]
	}
	if len(parts) >= 1 && parts[0] != "" {
		return parts[0]
	}
	return "unknown"
}

func extractResourceID(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for _, part := range parts {
		if _, err := uuid.Parse(part); err == nil {
			return part
		}
	}
	return ""
}

// RequestLogger writes one structured line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		wallet, _ := c.Get("wallet")
		fields := logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).Milliseconds(),
			"ip":         c.ClientIP(),
			"user_agent": c.Request.UserAgent(),
			"request_id": c.GetString("request_id"),
		}
		if wallet != nil {
			fields["wallet"] = wallet
		}

		entry := logrus.WithFields(fields)
		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Error("Request failed")
		case status >= 400:
			entry.Warn("Request rejected")
		default:
			entry.Info("Request processed")
		}
	}
}
