package web

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

// OK writes a 200 {"success": true, "data": ...} response.
func OK(c *fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"success": true, "data": data})
}

// Created writes a 201 {"success": true, "data": ...} response.
func Created(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": data})
}

// Message writes a 200 {"success": true, "message": ...} response.
func Message(c *fiber.Ctx, msg string) error {
	return c.JSON(fiber.Map{"success": true, "message": msg})
}

// ErrorHandler is the central Fiber error handler. AppError values map to
// their status; everything else is logged and returned as a generic 500 so
// internal detail never reaches the caller.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return c.Status(appErr.Status).JSON(fiber.Map{
			"success": false,
			"message": appErr.Message,
		})
	}

	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}

	log.Printf("ERROR: %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": "Server Error",
	})
}
