package handlers

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"comic-publish-system/middleware"
	"comic-publish-system/models"
	"comic-publish-system/services"
	"comic-publish-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// SetupProgressionRoutes wires the progression read endpoints, the rank path
// switch and the admin tooling.
func SetupProgressionRoutes(app *fiber.App, progression *services.ProgressionService, badges *services.BadgeService, ranks *services.RankService, leaderboard *services.LeaderboardService) {
	// Public: no user context needed.
	public := app.Group("/api")

	public.Get("/rank-titles", func(c *fiber.Ctx) error {
		titles, err := ranks.ListTitles()
		if err != nil {
			return progressionError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "rank_titles": titles})
	})

	public.Get("/leaderboard", func(c *fiber.Ctx) error {
		page, _ := strconv.Atoi(c.Query("page", "1"))
		perPage, _ := strconv.Atoi(c.Query("per_page", "50"))
		result, err := leaderboard.Get(page, perPage, c.Query("period"))
		if err != nil {
			return progressionError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "leaderboard": result})
	})

	secured := app.Group("/api", middleware.UserContextMiddleware())

	secured.Get("/user/stats", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		stats, err := progression.GetUserStats(userID)
		if err != nil {
			return progressionError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "stats": stats})
	})

	secured.Get("/user/activities", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		page, _ := strconv.Atoi(c.Query("page", "1"))
		perPage, _ := strconv.Atoi(c.Query("per_page", "20"))
		activities, err := progression.ListUserActivities(userID, page, perPage)
		if err != nil {
			return progressionError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "history": activities})
	})

	secured.Get("/user/badges", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		earned, err := badges.ListUserBadges(userID)
		if err != nil {
			return progressionError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "badges": earned})
	})

	secured.Get("/badges/available", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		available, err := badges.ListAvailableBadges(userID)
		if err != nil {
			return progressionError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "badges": available})
	})

	secured.Post("/user/change-rank-path", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		var req struct {
			RankPath string `json:"rank_path"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
		}
		user, err := ranks.ChangeRankPath(userID, req.RankPath)
		if err != nil {
			return progressionError(c, err)
		}
		return c.JSON(fiber.Map{
			"success":           true,
			"new_rank_title":    ranks.TitleForLevel(ranks.DB, user.RankPath, user.Level),
			"rank_path_display": models.RankPathDisplay(user.RankPath),
		})
	})

	admin := app.Group("/api/admin", middleware.UserContextMiddleware(), middleware.AdminOnly())

	// Replays an activity award for support cases; goes through the same
	// orchestrator as organic activity, caps and all.
	admin.Post("/award", func(c *fiber.Ctx) error {
		var req struct {
			UserID       string  `json:"user_id"`
			ActivityType string  `json:"activity_type"`
			ReferenceID  *string `json:"reference_id"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
		}
		result, err := progression.AwardPoints(req.UserID, models.ActivityType(req.ActivityType), req.ReferenceID)
		if err != nil {
			return progressionError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "result": result})
	})

	admin.Post("/badges", func(c *fiber.Ctx) error {
		value, err := strconv.ParseInt(c.FormValue("requirement_value"), 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid requirement_value"})
		}
		badge := models.Badge{
			Name:             c.FormValue("name"),
			Description:      c.FormValue("description"),
			Icon:             c.FormValue("icon"),
			Category:         c.FormValue("category"),
			RequirementType:  models.RequirementType(c.FormValue("requirement_type")),
			RequirementValue: value,
			IsActive:         true,
		}
		if badge.Name == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
		}

		// An uploaded icon file beats the emoji form value.
		if fileHeader, err := c.FormFile("icon_file"); err == nil {
			key := fmt.Sprintf("badges/%s%s", uuid.NewString(), filepath.Ext(fileHeader.Filename))
			var iconURL string
			if utils.R2Available() {
				iconURL, err = utils.UploadImageToR2(fileHeader, key)
			} else {
				iconURL, err = utils.SaveUpload(fileHeader, key)
			}
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "icon upload failed", "cause": err.Error()})
			}
			badge.Icon = iconURL
		}

		if err := badges.CreateBadge(&badge); err != nil {
			return progressionError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "badge": badge})
	})
}

// progressionError maps service errors onto the HTTP taxonomy: disabled
// features are 503 with a disabled flag, missing users 404, bad input 400.
func progressionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrProgressionDisabled),
		errors.Is(err, services.ErrBadgesDisabled),
		errors.Is(err, services.ErrRankTitlesDisabled):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false, "disabled": true, "message": "feature is under development",
		})
	case errors.Is(err, services.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
	case errors.Is(err, services.ErrContentNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "content not found"})
	case errors.Is(err, services.ErrInvalidActivity),
		errors.Is(err, services.ErrInvalidRankPath),
		errors.Is(err, services.ErrInvalidRequirement):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrBadgeExists):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "internal error", "cause": err.Error(),
	})
}
