package routes

import (
	"net/http"
	"time"

	"pawperfection/controllers"
	"pawperfection/middleware"
	"pawperfection/repository"
	"pawperfection/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Deps struct {
	Auth     *controllers.AuthController
	Pets     *controllers.PetController
	Training *controllers.TrainingController
	Feedback *controllers.FeedbackController
	Payments *controllers.PaymentController
	Webhooks *controllers.WebhookController

	Tokens *services.TokenService
	Users  repository.UserRepository
	Redis  *redis.Client
	Logger *zap.Logger
}

// Register wires every route group onto the router. The webhook route
// stays outside auth and rate limiting so provider deliveries are never
// rejected, and its raw body is never consumed before signature
// verification.
func Register(router *gin.Engine, d Deps) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	requireAuth := middleware.RequireAuth(d.Tokens, d.Users)

	user := router.Group("/api/user")
	{
		user.POST("/register", d.Auth.Register)
		user.POST("/login", d.Auth.Login)
		user.POST("/refresh", d.Auth.Refresh)
		user.POST("/logout", requireAuth, d.Auth.Logout)
		user.GET("/profile", requireAuth, d.Auth.Profile)
	}

	pet := router.Group("/api/pet", requireAuth)
	{
		pet.POST("/", d.Pets.CreatePet)
		pet.GET("/", d.Pets.GetUserPets)
		pet.GET("/:id", d.Pets.GetPet)
		pet.PUT("/:id", d.Pets.UpdatePet)
		pet.DELETE("/:id", d.Pets.DeletePet)
	}

	training := router.Group("/api/training")
	{
		training.GET("/courses", d.Training.ListPrograms)
		training.GET("/courses/:id", requireAuth, d.Training.GetProgram)
		training.POST("/courses", requireAuth, d.Training.CreateProgram)
		training.PUT("/courses/:id", requireAuth, d.Training.UpdateProgram)
		training.DELETE("/courses/:id", requireAuth, d.Training.DeleteProgram)
	}

	feedback := router.Group("/api/feedback")
	{
		feedback.POST("/message", d.Feedback.SubmitFeedback)
		feedback.GET("/message", requireAuth, d.Feedback.ListFeedback)
	}

	paymentLimit := middleware.RateLimit(d.Redis, d.Logger, 20, time.Minute)
	payment := router.Group("/api/payment", requireAuth, paymentLimit)
	{
		payment.POST("/create-payment", d.Payments.CreatePayment)
		payment.POST("/verify-payment", d.Payments.VerifyPayment)
		payment.GET("/user-payments", d.Payments.GetUserPayments)
		payment.GET("/:id", d.Payments.GetPayment)
	}

	router.POST("/api/webhook/stripe-webhook", d.Webhooks.HandleStripeWebhook)
}
