package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/scrivehq/scrive/internal/pkg/statistics"
)

// HandleStats returns public aggregate numbers for the landing page.
func HandleStats(c *fiber.Ctx) error {
	return c.JSON(statistics.GetStatistics())
}
