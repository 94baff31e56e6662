package controllers

import "github.com/gofiber/fiber/v2"

func HandleIndex(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "부동산 정책 추천 서비스 API에 오신 것을 환영합니다! 🚀",
	})
}
