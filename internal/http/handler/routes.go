package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"stickynote/internal/auth"
	"stickynote/internal/http/middleware"
	"stickynote/internal/service"
	"stickynote/internal/storage"
)

// Services groups what the routes call into.
type Services struct {
	Users       service.UserService
	Admins      service.AdminService
	Notes       service.NoteService
	Attachments service.AttachmentService
	Labels      service.LabelService
}

// RouteConfig carries the collaborators RegisterRoutes wires into handlers.
type RouteConfig struct {
	DB       *sql.DB
	Store    storage.Storage
	Tokens   middleware.TokenVerifier
	Services Services
	// MaxFilesPerUpload caps the files accepted by one attachment request.
	MaxFilesPerUpload int
}

// RegisterRoutes attaches every HTTP route to app.
func RegisterRoutes(app *fiber.App, rc RouteConfig) {
	app.Get("/health", HealthCheck(rc.DB))
	app.Get("/healthz", LivenessProbe())
	app.Get("/images/:name", ServeImage(rc.Store))

	requireUser := middleware.RequireRole(rc.Tokens, auth.RoleUser)
	requireAdmin := middleware.RequireRole(rc.Tokens, auth.RoleAdmin)
	svc := rc.Services

	admin := app.Group("/admin")
	admin.Get("/sequre", requireAdmin, VerifiedClaims())
	admin.Post("/create", CreateAdmin(svc.Admins))
	admin.Post("/login", LoginAdmin(svc.Admins))
	admin.Get("/get/:id", GetAdmin(svc.Admins))
	admin.Put("/update/:id", UpdateAdmin(svc.Admins))
	admin.Put("/changepassword", ChangeAdminPassword(svc.Admins))
	admin.Post("/forgetpassword", ForgetPassword(svc.Admins))
	admin.Post("/otpverification", VerifyOTP(svc.Admins))

	user := app.Group("/user")
	user.Get("/sequre", requireUser, VerifiedClaims())
	user.Post("/create", CreateUser(svc.Users))
	user.Post("/login", LoginUser(svc.Users))
	user.Get("/getall", requireAdmin, ListUsers(svc.Users))
	user.Get("/get/:id", GetUser(svc.Users))
	user.Put("/update/:id", UpdateUser(svc.Users))
	user.Delete("/delete/:id", requireAdmin, DeleteUser(svc.Users))

	notes := app.Group("/notes", requireUser)
	notes.Post("/create", CreateNote(svc.Notes))
	notes.Get("/getbyUser/:userId", ListNotesByUser(svc.Notes))
	notes.Get("/get/:id", GetNote(svc.Notes))
	notes.Put("/update/:id", UpdateNote(svc.Notes))
	notes.Delete("/delete/:id", DeleteNote(svc.Notes))
	notes.Get("/filterByLabel/:userId/:labelId", FilterNotesByLabel(svc.Notes))
	notes.Get("/filterByDate/:userId", FilterNotesByDate(svc.Notes))
	notes.Get("/search/:userId/:query", SearchNotes(svc.Notes))
	notes.Put("/pinUnpin/:id", TogglePin(svc.Notes))
	notes.Put("/archive/:id", ToggleArchive(svc.Notes))
	notes.Get("/getPinnedNotes/:userId", ListPinnedNotes(svc.Notes))
	notes.Get("/getArchivedNotes/:userId", ListArchivedNotes(svc.Notes))
	notes.Put("/addAttachment/:id", AddAttachments(svc.Attachments, rc.MaxFilesPerUpload))
	notes.Put("/removeAttachment/:id/:index", RemoveAttachment(svc.Attachments))

	labels := app.Group("/labels", requireUser)
	labels.Post("/create", CreateLabel(svc.Labels))
	labels.Get("/getall", ListLabels(svc.Labels))
	labels.Get("/get/:id", GetLabel(svc.Labels))
	labels.Put("/update/:id", UpdateLabel(svc.Labels))
	labels.Delete("/delete/:id", DeleteLabel(svc.Labels))
}
