package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/order-service/internal/api/dto"
	"github.com/spec-kit/order-service/internal/service"
)

// ProfilesHandler exposes access-profile management endpoints.
type ProfilesHandler struct {
	profiles *service.ProfileService
}

// NewProfilesHandler constructs handler.
func NewProfilesHandler(profiles *service.ProfileService) *ProfilesHandler {
	return &ProfilesHandler{profiles: profiles}
}

// List handles GET /api/profiles.
func (h *ProfilesHandler) List(c *fiber.Ctx) error {
	profiles, err := h.profiles.ListProfiles(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": dto.ToProfileResponses(profiles),
	})
}

// Get handles GET /api/profiles/:id.
func (h *ProfilesHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	profile, err := h.profiles.GetProfile(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": dto.ToProfileResponse(profile),
	})
}

// Create handles POST /api/profiles.
func (h *ProfilesHandler) Create(c *fiber.Ctx) error {
	var req dto.ProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	profile, err := h.profiles.CreateProfile(c.Context(), service.ProfileInput{
		Name:        req.Name,
		Description: req.Description,
		Permissions: req.Permissions,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.ToProfileResponse(profile),
	})
}

// Update handles PUT /api/profiles/:id.
func (h *ProfilesHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.ProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	profile, err := h.profiles.UpdateProfile(c.Context(), id, service.ProfileInput{
		Name:        req.Name,
		Description: req.Description,
		Permissions: req.Permissions,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": dto.ToProfileResponse(profile),
	})
}

// Delete handles DELETE /api/profiles/:id.
func (h *ProfilesHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.profiles.DeleteProfile(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"message": "profile deleted"},
	})
}
