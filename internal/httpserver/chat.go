package httpserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"standardtime/internal/domain"
)

type sendMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

func chatSendHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := currentProfile(c)
		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		msg, err := deps.ChatSvc.Send(c.Request.Context(), p.Email, p.DisplayName, domain.SenderCustomer, req.Message)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, msg)
	}
}

func chatTranscriptHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := currentProfile(c)
		messages, err := deps.ChatSvc.Transcript(c.Request.Context(), p.Email)
		if err != nil {
			respondError(c, err)
			return
		}
		if messages == nil {
			messages = []domain.ChatMessage{}
		}
		c.JSON(http.StatusOK, gin.H{"messages": messages})
	}
}

// chatStreamHandler pushes the full transcript over SSE whenever the
// customer's channel fires, plus a keepalive so proxies hold the stream
// open. Each event is a complete snapshot; the client replaces, never
// merges.
func chatStreamHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := currentProfile(c)
		nudges, cancel := deps.ChatSvc.Subscribe(p.Email)
		defer cancel()

		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")

		send := func() bool {
			messages, err := deps.ChatSvc.Transcript(c.Request.Context(), p.Email)
			if err != nil {
				return false
			}
			if messages == nil {
				messages = []domain.ChatMessage{}
			}
			c.SSEvent("transcript", gin.H{"messages": messages})
			c.Writer.Flush()
			return true
		}

		if !send() {
			return
		}

		keepalive := time.NewTicker(25 * time.Second)
		defer keepalive.Stop()
		for {
			select {
			case <-c.Request.Context().Done():
				return
			case <-nudges:
				if !send() {
					return
				}
			case <-keepalive.C:
				c.SSEvent("ping", time.Now().Unix())
				c.Writer.Flush()
			}
		}
	}
}

func adminListChatsHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		emails, err := deps.ChatSvc.Conversations(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		if emails == nil {
			emails = []string{}
		}
		c.JSON(http.StatusOK, gin.H{"customers": emails})
	}
}

func adminChatTranscriptHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		messages, err := deps.ChatSvc.Transcript(c.Request.Context(), c.Param("email"))
		if err != nil {
			respondError(c, err)
			return
		}
		if messages == nil {
			messages = []domain.ChatMessage{}
		}
		c.JSON(http.StatusOK, gin.H{"messages": messages})
	}
}

func adminChatSendHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		msg, err := deps.ChatSvc.Send(c.Request.Context(), c.Param("email"), "Support", domain.SenderAdmin, req.Message)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, msg)
	}
}
