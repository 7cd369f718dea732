package mailer

import (
	"io"
	"log"
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type sendReceiptRequest struct {
	Email     string `json:"email" binding:"required"`
	Base64PDF string `json:"base64Pdf" binding:"required"`
}

// NewRouter builds the relay's single-endpoint router. The PDF goes through
// a temp file that is removed after the send, success or not.
func NewRouter(m *Mailer, logger *log.Logger) *gin.Engine {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.Default())

	router.POST("/send-receipt", func(c *gin.Context) {
		var req sendReceiptRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
		pdf, err := DecodePDF(req.Base64PDF)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		tmp, err := os.CreateTemp("", "receipt-*.pdf")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}
		defer os.Remove(tmp.Name())
		if _, err := tmp.Write(pdf); err != nil {
			tmp.Close()
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}
		tmp.Close()

		if err := m.SendReceipt(req.Email, tmp.Name()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	return router
}
