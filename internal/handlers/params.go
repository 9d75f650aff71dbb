package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

var (
	ErrInvalidID      = errors.New("id must be a positive integer")
	ErrInvalidExclude = errors.New("exclude must be a comma separated list of ids")
)

func parseIDParam(c *fiber.Ctx, name string) (int, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// parseExclude reads ?exclude=1,2,3. Blank entries are skipped.
func parseExclude(c *fiber.Ctx) ([]int, error) {
	raw := strings.TrimSpace(c.Query("exclude"))
	if raw == "" {
		return []int{}, nil
	}

	var invalid bool
	ids := lo.FilterMap(strings.Split(raw, ","), func(part string, _ int) (int, bool) {
		part = strings.TrimSpace(part)
		if part == "" {
			return 0, false
		}
		id, err := strconv.Atoi(part)
		if err != nil || id <= 0 {
			invalid = true
			return 0, false
		}
		return id, true
	})
	if invalid {
		return nil, ErrInvalidExclude
	}
	return lo.Uniq(ids), nil
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": err.Error(),
	})
}
