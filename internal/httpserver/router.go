package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"standardtime/internal/catalog"
	"standardtime/internal/currency"
	"standardtime/internal/domain"
	checkoutsvc "standardtime/internal/service/checkout"
	customersvc "standardtime/internal/service/customer"
)

type cartService interface {
	Get(ctx context.Context, ownerKey string) (*domain.Cart, error)
	Add(ctx context.Context, ownerKey string, w domain.Watch) (*domain.Cart, error)
	Remove(ctx context.Context, ownerKey string, watchID int) (*domain.Cart, error)
	SetQuantity(ctx context.Context, ownerKey string, watchID, quantity int) (*domain.Cart, error)
}

type checkoutService interface {
	Start(ownerKey string, profileID *string, email string, item checkoutsvc.Item, displayCurrency string) *checkoutsvc.Session
	Get(id string) (*checkoutsvc.Session, error)
	SelectPayment(id string, method domain.PaymentMethod) (*checkoutsvc.Session, error)
	SubmitDetails(id string, d checkoutsvc.Details) (*checkoutsvc.Session, map[string]string, error)
	Back(id string) (*checkoutsvc.Session, error)
	Complete(ctx context.Context, id string) (*checkoutsvc.Session, error)
}

type orderService interface {
	Get(ctx context.Context, id string) (*domain.Order, error)
	Pending(ctx context.Context) ([]domain.Order, error)
	InProgress(ctx context.Context) ([]domain.Order, error)
	All(ctx context.Context) ([]domain.Order, error)
	ForProfile(ctx context.Context, profileID string) ([]domain.Order, error)
	Confirm(ctx context.Context, id string) (*domain.Order, error)
	Advance(ctx context.Context, id string, to domain.OrderStatus) (*domain.Order, error)
	SetTracking(ctx context.Context, id, trackingNumber string) (*domain.Order, error)
}

type chatService interface {
	Send(ctx context.Context, customerEmail, customerName string, sender domain.ChatSender, text string) (*domain.ChatMessage, error)
	Transcript(ctx context.Context, customerEmail string) ([]domain.ChatMessage, error)
	Conversations(ctx context.Context) ([]string, error)
	Subscribe(customerEmail string) (<-chan struct{}, func())
}

type customerService interface {
	Signup(ctx context.Context, in customersvc.SignupInput) (*domain.Profile, error)
	Login(ctx context.Context, email, password string) (*domain.Profile, string, error)
	LookupByToken(ctx context.Context, token string) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, profileID string, in customersvc.UpdateProfileInput) (*domain.Profile, error)
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
	AccessTTLSeconds() int
}

// Deps carries everything the routes need.
type Deps struct {
	Catalog        *catalog.Catalog
	Rates          *currency.Rates
	CartSvc        cartService
	CheckoutSvc    checkoutService
	OrderSvc       orderService
	ChatSvc        chatService
	CustomerSvc    customerService
	AdminToken     string
	AllowedOrigins []string
}

// buildRouter wires storefront, account, chat, and admin routes.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if deps.Catalog == nil {
		return nil, errors.New("catalog required")
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(deps.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = deps.AllowedOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", guestTokenHeader, adminTokenHeader)
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.GET("/watches", listWatchesHandler(deps))
	router.GET("/watches/brands", brandsHandler(deps))
	router.GET("/watches/:id", getWatchHandler(deps))

	router.POST("/signup", signupHandler(deps))
	router.POST("/login", loginHandler(deps))
	router.POST("/password-reset", passwordResetRequestHandler(deps))
	router.POST("/password-reset/confirm", passwordResetConfirmHandler(deps))

	account := router.Group("/me", requireProfile(deps))
	{
		account.GET("", meHandler())
		account.PATCH("", updateMeHandler(deps))
		account.GET("/orders", myOrdersHandler(deps))
	}

	shopper := router.Group("/", identify(deps))
	{
		shopper.GET("/cart", getCartHandler(deps))
		shopper.POST("/cart/items", addCartItemHandler(deps))
		shopper.PATCH("/cart/items/:watchId", setQuantityHandler(deps))
		shopper.DELETE("/cart/items/:watchId", removeCartItemHandler(deps))

		shopper.POST("/checkout", startCheckoutHandler(deps))
		shopper.GET("/checkout/:id", getCheckoutHandler(deps))
		shopper.POST("/checkout/:id/payment-method", selectPaymentHandler(deps))
		shopper.POST("/checkout/:id/details", submitDetailsHandler(deps))
		shopper.POST("/checkout/:id/back", checkoutBackHandler(deps))
		shopper.POST("/checkout/:id/complete", completeCheckoutHandler(deps))
	}

	chat := router.Group("/chat", requireProfile(deps))
	{
		chat.GET("/messages", chatTranscriptHandler(deps))
		chat.POST("/messages", chatSendHandler(deps))
		chat.GET("/stream", chatStreamHandler(deps))
	}

	admin := router.Group("/admin", adminAuth(deps.AdminToken))
	{
		admin.GET("/orders", adminListOrdersHandler(deps))
		admin.GET("/orders/:id", adminGetOrderHandler(deps))
		admin.POST("/orders/:id/confirm", adminConfirmHandler(deps))
		admin.POST("/orders/:id/status", adminStatusHandler(deps))
		admin.PUT("/orders/:id/tracking", adminTrackingHandler(deps))
		admin.GET("/chats", adminListChatsHandler(deps))
		admin.GET("/chats/:email/messages", adminChatTranscriptHandler(deps))
		admin.POST("/chats/:email/messages", adminChatSendHandler(deps))
	}

	return router, nil
}

func adminAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" || c.GetHeader(adminTokenHeader) != token {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin token required"})
			return
		}
		c.Next()
	}
}
