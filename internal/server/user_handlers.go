package server

import (
	"kroknodes/internal/models"

	"github.com/gofiber/fiber/v2"
)

// statusForError maps a repository error to the HTTP status the adapter
// reports it as.
func statusForError(err error) int {
	switch {
	case models.IsCode(err, models.CodeNotFound):
		return fiber.StatusNotFound
	case models.IsCode(err, models.CodeConflict):
		return fiber.StatusConflict
	case models.IsCode(err, models.CodeForeignKey):
		return fiber.StatusBadRequest
	case models.IsCode(err, models.CodeValidation):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// ListUsers handles GET /api/v1/users
func (s *Server) ListUsers(c *fiber.Ctx) error {
	ctx := c.Context()
	skip := c.QueryInt("skip", 0)
	limit := c.QueryInt("limit", 100)

	users, err := s.userRepo.List(ctx, skip, limit)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.JSON(users)
}

// GetUser handles GET /api/v1/users/:id
func (s *Server) GetUser(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := c.ParamsInt("id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid user ID"))
	}

	user, err := s.userRepo.GetByID(ctx, uint(id))
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.JSON(user)
}

// CreateUser handles POST /api/v1/users
func (s *Server) CreateUser(c *fiber.Ctx) error {
	ctx := c.Context()

	var req models.UserCreate
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Username == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("username is required"))
	}

	// Existence pre-check; the unique index still backstops races.
	if _, err := s.userRepo.GetByUsername(ctx, req.Username); err == nil {
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewConflictError("username already exists"))
	} else if !models.IsCode(err, models.CodeNotFound) {
		return models.RespondWithError(c, statusForError(err), err)
	}

	user, err := s.userRepo.Create(ctx, &req)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// UpdateUser handles PUT /api/v1/users/:id
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := c.ParamsInt("id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid user ID"))
	}

	var req models.UserUpdate
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userRepo.Update(ctx, uint(id), &req)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.JSON(user)
}

// DeleteUser handles DELETE /api/v1/users/:id
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := c.ParamsInt("id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid user ID"))
	}

	deleted, err := s.userRepo.Delete(ctx, uint(id))
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	if !deleted {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("User", id))
	}
	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}

// GetOrCreateUser handles POST /api/v1/users/get-or-create
func (s *Server) GetOrCreateUser(c *fiber.Ctx) error {
	ctx := c.Context()

	username := c.Query("username")
	if username == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("username is required"))
	}

	var email *string
	if v := c.Query("email"); v != "" {
		email = &v
	}

	user, err := s.userRepo.GetOrCreate(ctx, username, email)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.JSON(user)
}
