package server

import (
	"kroknodes/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ListFlows handles GET /api/v1/flows. With a user_id query parameter it
// lists only that user's flows.
func (s *Server) ListFlows(c *fiber.Ctx) error {
	ctx := c.Context()
	skip := c.QueryInt("skip", 0)
	limit := c.QueryInt("limit", 100)
	userID := c.QueryInt("user_id", 0)

	var (
		flows []models.Flow
		err   error
	)
	if userID > 0 {
		flows, err = s.flowRepo.ListByUser(ctx, uint(userID), skip, limit)
	} else {
		flows, err = s.flowRepo.ListAll(ctx, skip, limit)
	}
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.JSON(flows)
}

// GetFlow handles GET /api/v1/flows/:flow_id
func (s *Server) GetFlow(c *fiber.Ctx) error {
	ctx := c.Context()
	flowID := c.Params("flow_id")

	flow, err := s.flowRepo.GetByFlowID(ctx, flowID)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.JSON(flow)
}

// CreateFlow handles POST /api/v1/flows
func (s *Server) CreateFlow(c *fiber.Ctx) error {
	ctx := c.Context()

	var req models.FlowCreate
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.FlowID == "" || req.Name == "" || req.UserID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("flow_id, name and user_id are required"))
	}

	// Existence pre-check; the unique index still backstops races.
	if _, err := s.flowRepo.GetByFlowID(ctx, req.FlowID); err == nil {
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewConflictError("flow_id already exists"))
	} else if !models.IsCode(err, models.CodeNotFound) {
		return models.RespondWithError(c, statusForError(err), err)
	}

	flow, err := s.flowRepo.Create(ctx, &req)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.Status(fiber.StatusCreated).JSON(flow)
}

// UpdateFlow handles PUT /api/v1/flows/:flow_id
func (s *Server) UpdateFlow(c *fiber.Ctx) error {
	ctx := c.Context()
	flowID := c.Params("flow_id")

	var req models.FlowUpdate
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	flow, err := s.flowRepo.Update(ctx, flowID, &req)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.JSON(flow)
}

// DeleteFlow handles DELETE /api/v1/flows/:flow_id
func (s *Server) DeleteFlow(c *fiber.Ctx) error {
	ctx := c.Context()
	flowID := c.Params("flow_id")

	deleted, err := s.flowRepo.Delete(ctx, flowID)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	if !deleted {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Flow", flowID))
	}
	return c.JSON(fiber.Map{"message": "Flow deleted successfully"})
}

// CreateDefaultFlow handles POST /api/v1/flows/create-default/:user_id.
// The target user must exist.
func (s *Server) CreateDefaultFlow(c *fiber.Ctx) error {
	ctx := c.Context()
	userID, err := c.ParamsInt("user_id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid user ID"))
	}

	if _, err := s.userRepo.GetByID(ctx, uint(userID)); err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	flow, err := s.flowRepo.CreateDefault(ctx, uint(userID))
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.Status(fiber.StatusCreated).JSON(flow)
}
