package api

import (
	"net/http"

	"fitcollab/fitness-app/internal/domain" // Needed for RoleMiddleware
	"fitcollab/fitness-app/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	planService service.PlanService,
	userService service.UserService,
	relationshipService service.RelationshipService,
) {

	authHandler := NewAuthHandler(authService)
	planHandler := NewPlanHandler(planService)
	userHandler := NewUserHandler(userService)
	relationshipHandler := NewRelationshipHandler(relationshipService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role})
		})

		// --- Profile, history, weight ---
		userGroup := protected.Group("/users/:userId")
		{
			userGroup.GET("", userHandler.GetUser)
			userGroup.PUT("/profile", userHandler.UpdateProfile)
			userGroup.GET("/history", userHandler.GetHistory)

			userGroup.POST("/weights", userHandler.AddWeightRecord)
			userGroup.GET("/weights", userHandler.GetWeightRecords)
			userGroup.POST("/weights/:recordId/photo/upload-url", userHandler.RequestPhotoUploadURL)
			userGroup.POST("/weights/:recordId/photo/confirm", userHandler.ConfirmPhoto)
			userGroup.GET("/weights/:recordId/photo", userHandler.GetPhotoURL)

			// --- Plan aggregates (whole-subtree submissions) ---
			userGroup.PUT("/training-weeks", planHandler.SaveTrainingWeek)
			userGroup.GET("/training-weeks", planHandler.GetTrainingWeeks)
			userGroup.PUT("/diets", planHandler.SaveDiet)
			userGroup.GET("/diets", planHandler.GetDiets)
		}

		protected.DELETE("/training-weeks/:weekId", planHandler.DeleteTrainingWeek)
		protected.DELETE("/diets/:dietId", planHandler.DeleteDiet)

		// --- Completion ---
		protected.POST("/exercises/:exerciseId/complete", planHandler.CompleteExercise)
		protected.POST("/meals/:mealId/complete", planHandler.CompleteMeal)

		// --- Professional roster ---
		professionalGroup := protected.Group("/professional")
		professionalGroup.Use(RoleMiddleware(domain.RoleTrainer, domain.RoleNutritionist))
		{
			professionalGroup.POST("/students", relationshipHandler.AddStudentByEmail)
			professionalGroup.GET("/students", relationshipHandler.GetStudents)
		}
		protected.DELETE("/relationships/:relationshipId", relationshipHandler.EndRelationship)

		// --- Admin ---
		adminGroup := protected.Group("/admin")
		adminGroup.Use(RoleMiddleware(domain.RoleAdmin))
		{
			adminGroup.GET("/users", userHandler.ListUsers)
			adminGroup.DELETE("/users/:userId", userHandler.DeleteUser)
		}
	}
}
