package controllers

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/scrivehq/scrive/internal/pkg/cache"
	"github.com/scrivehq/scrive/internal/pkg/env"
)

const iconsPerPage = 20

var iconCategories = map[string]bool{
	"solid":   true,
	"regular": true,
	"duotone": true,
	"light":   true,
	"thin":    true,
	"brands":  true,
}

func iconsBasePath() string {
	return env.GetEnv("ICONS_PATH", "./assets/icons")
}

// listIconNames returns the sorted icon names of a category, cached in
// Redis so the directory is not rescanned on every request.
func listIconNames(category string) ([]string, error) {
	cacheKey := "icons:" + category
	if cached, err := cache.Get(cacheKey); err == nil && cached != "" {
		var names []string
		if err := json.Unmarshal([]byte(cached), &names); err == nil {
			return names, nil
		}
	}

	entries, err := os.ReadDir(filepath.Join(iconsBasePath(), category))
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".svg") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".svg"))
	}
	sort.Strings(names)

	if encoded, err := json.Marshal(names); err == nil {
		if err := cache.Set(cacheKey, string(encoded), time.Hour); err != nil {
			log.Printf("[Icons] Failed to cache listing for %s: %v", category, err)
		}
	}
	return names, nil
}

// HandleIconList lists icons of one category with search and pagination.
func HandleIconList(c *fiber.Ctx) error {
	category := c.Query("category", "solid")
	if !iconCategories[category] {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "category_not_found",
			"message": "Unknown icon category",
		})
	}

	names, err := listIconNames(category)
	if err != nil {
		log.Printf("[Icons] Listing failed for %s: %v", category, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "Icons could not be listed",
		})
	}

	if search := strings.ToLower(strings.TrimSpace(c.Query("search"))); search != "" {
		filtered := make([]string, 0, len(names))
		for _, name := range names {
			if strings.Contains(strings.ToLower(name), search) {
				filtered = append(filtered, name)
			}
		}
		names = filtered
	}

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	total := len(names)
	start := (page - 1) * iconsPerPage
	if start > total {
		start = total
	}
	end := start + iconsPerPage
	if end > total {
		end = total
	}

	return c.JSON(fiber.Map{
		"category": category,
		"icons":    names[start:end],
		"page":     page,
		"per_page": iconsPerPage,
		"total":    total,
	})
}

// HandleIconFile serves one SVG. The category whitelist plus the base name
// check keep path traversal out.
func HandleIconFile(c *fiber.Ctx) error {
	category := c.Params("category")
	if !iconCategories[category] {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "category_not_found",
			"message": "Unknown icon category",
		})
	}
	name := c.Params("name")
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_request",
			"message": "Invalid icon name",
		})
	}

	path := filepath.Join(iconsBasePath(), category, name+".svg")
	data, err := os.ReadFile(path)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "icon_not_found",
			"message": "Icon not found",
		})
	}

	c.Set(fiber.HeaderContentType, "image/svg+xml")
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	return c.Send(data)
}
