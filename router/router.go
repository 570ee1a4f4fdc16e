package router

import (
	"conference-webapp/handlers"
	"conference-webapp/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func SetupRoutes(app *fiber.App, h *handlers.Handler, sign string) {
	api := app.Group("/", logger.New())
	auth := middleware.Authorize(sign)

	//Login
	api.Post("/login", h.Login)
	api.Post("/signup", h.Signup)
	api.Post("/role", auth, h.SetRole)

	//Conference
	conference := api.Group("/conference", auth)
	conference.Get("/", h.GetConferences)
	conference.Get("/:confId", h.GetConference)
	conference.Post("/", middleware.RequireOrganiser(), h.CreateNewConference)
	conference.Put("/:confId", h.UpdateConference)
	conference.Delete("/:confId", h.DeleteConference)
	conference.Get("/:confId/committees", h.GetCommitteeOptions)
	conference.Get("/:confId/committees/:committee/portfolios", h.GetPortfolioOptions)

	//Registration
	conference.Post("/:confId/register", h.Register)
	conference.Get("/:confId/registration", h.IsRegistered)

	//Participants
	participants := conference.Group("/:confId/participants")
	participants.Get("/", h.GetParticipants)
	participants.Get("/me", h.GetMyParticipant)
	participants.Post("/:participantId/allot", h.AllotParticipant)

	//Allotments
	allotments := conference.Group("/:confId/allotments")
	allotments.Get("/", h.GetAllotments)
	allotments.Post("/", h.SubmitAllotments)

	//Executive board
	conference.Get("/:confId/executive-board", h.GetExecutiveBoard)
	conference.Post("/:confId/executive-board", h.AddExecutiveBoardMember)
	executiveBoard := api.Group("/executive-board", auth)
	executiveBoard.Put("/:execId", h.UpdateExecutiveBoardMember)
	executiveBoard.Delete("/:execId", h.DeleteExecutiveBoardMember)
}
