package handlers

import (
	"fmt"
	"path/filepath"

	"comic-publish-system/middleware"
	"comic-publish-system/models"
	"comic-publish-system/services"
	"comic-publish-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// SetupActivityRoutes wires the collaborator touchpoints. Every
// point-earning action here goes through the progression orchestrator; a
// zero-point result means the action happened but hit a rate limit.
func SetupActivityRoutes(app *fiber.App, content *services.ContentService, progression *services.ProgressionService) {
	secured := app.Group("/api", middleware.UserContextMiddleware())

	secured.Post("/auth/daily-login", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		result, err := progression.AwardPoints(userID, models.ActivityDailyLogin, nil)
		if err != nil {
			return progressionError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "progression": result})
	})

	secured.Post("/chapters/:id/read", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		result, err := content.RecordChapterRead(userID, c.Params("id"))
		if err != nil {
			return progressionError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "progression": result})
	})

	secured.Post("/chapters/:id/comments", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		var req struct {
			Content string `json:"content"`
		}
		if err := c.BodyParser(&req); err != nil || req.Content == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "content is required"})
		}
		comment, result, err := content.CreateComment(userID, c.Params("id"), req.Content)
		if err != nil {
			return progressionError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true, "comment": comment, "progression": result,
		})
	})

	secured.Post("/comics/:id/rate", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		var req struct {
			Value int `json:"value"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
		}
		rating, result, err := content.RateComic(userID, c.Params("id"), req.Value)
		if err != nil {
			return progressionError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "rating": rating, "progression": result})
	})

	secured.Post("/comics", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		title := c.FormValue("title")
		if title == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title is required"})
		}

		coverURL := ""
		if fileHeader, err := c.FormFile("cover"); err == nil {
			key := fmt.Sprintf("covers/%s%s", uuid.NewString(), filepath.Ext(fileHeader.Filename))
			if utils.R2Available() {
				coverURL, err = utils.UploadImageToR2(fileHeader, key)
			} else {
				coverURL, err = utils.SaveUpload(fileHeader, key)
			}
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "cover upload failed", "cause": err.Error()})
			}
		}

		comic, result, err := content.CreateComic(userID, title, c.FormValue("author"), coverURL)
		if err != nil {
			return progressionError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true, "comic": comic, "progression": result,
		})
	})

	secured.Post("/comics/:id/chapters", func(c *fiber.Ctx) error {
		var req struct {
			Title  string `json:"title"`
			Number int    `json:"number"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
		}
		if req.Number < 1 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid chapter number"})
		}
		chapter, err := content.AddChapter(c.Params("id"), req.Title, req.Number)
		if err != nil {
			return progressionError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "chapter": chapter})
	})
}
