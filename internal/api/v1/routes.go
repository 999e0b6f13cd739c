package v1

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/aneeshsrinivas/academy-api/internal/auth"
	"github.com/aneeshsrinivas/academy-api/internal/chat"
	"github.com/aneeshsrinivas/academy-api/internal/config"
	"github.com/aneeshsrinivas/academy-api/internal/logger"
	"github.com/aneeshsrinivas/academy-api/internal/models"
	"github.com/aneeshsrinivas/academy-api/internal/notify"
	"github.com/aneeshsrinivas/academy-api/internal/service"
	"github.com/aneeshsrinivas/academy-api/internal/store"
	"github.com/aneeshsrinivas/academy-api/internal/utils"
)

type API struct {
	cfg    *config.Config
	router *chi.Mux
	store  *store.Store
	log    *zap.Logger
	mailer *notify.Mailer
	hub    *chat.Hub
	r2     *utils.R2Storage
}

func NewAPI(cfg *config.Config, s *store.Store, log *zap.Logger, mailer *notify.Mailer, hub *chat.Hub, r2 *utils.R2Storage) *API {
	api := &API{cfg: cfg, router: chi.NewRouter(), store: s, log: log, mailer: mailer, hub: hub, r2: r2}
	api.router.Use(logger.Middleware(log))
	api.routes()
	return api
}

func (a *API) Routes() *chi.Mux {
	return a.router
}

func (a *API) routes() {
	usvc := service.NewUserService(a.store)
	demoSvc := service.NewDemoService(a.store, a.mailer, a.log)
	convSvc := service.NewConversionService(a.store, a.mailer, a.log)
	coachSvc := service.NewCoachService(a.store, a.mailer, a.log)
	chatSvc := service.NewChatService(a.store, a.hub, a.log)
	bcastSvc := service.NewBroadcastService(a.store, a.mailer)

	authH := NewAuthHandler(a.cfg, usvc, a.store)
	demoH := NewDemoHandler(demoSvc, convSvc)
	coachH := NewCoachHandler(coachSvc)
	chatH := NewChatHandler(a.cfg, chatSvc, a.store, a.r2, a.log)
	bcastH := NewBroadcastHandler(bcastSvc)
	studentH := NewStudentHandler(a.store)

	r := a.router

	// auth routes
	r.Route("/auth", func(r chi.Router) {
		r.Options("/*", func(w http.ResponseWriter, r *http.Request) {})
		r.Post("/login", authH.Login)
		r.Post("/logout", authH.Logout)
		r.Post("/refresh", authH.Refresh)
		r.Post("/google", authH.GoogleSignIn)
		r.Post("/set-password", authH.SetPassword)
	})

	// public website forms
	r.Post("/demos", demoH.BookDemo)
	r.Post("/coaches/apply", coachH.Apply)
	r.Post("/contact", bcastH.SubmitContact)

	// customer-facing, after the payment link
	r.Post("/demos/{id}/payment-proof", demoH.SubmitPaymentProof)

	// chat (protected; the websocket authenticates via query token)
	r.Route("/chats", func(r chi.Router) {
		r.Options("/*", func(w http.ResponseWriter, r *http.Request) {})
		r.Get("/{id}/listen", chatH.Listen)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(a.store))
			r.Get("/{id}/messages", chatH.History)
			r.Post("/{id}/messages", chatH.Send)
			r.Post("/{id}/attachments", chatH.UploadAttachment)
		})
	})

	// broadcasts readable by any signed-in role
	r.With(auth.Middleware(a.store)).Get("/broadcasts", bcastH.List)

	r.Route("/admin", func(r chi.Router) {
		r.Options("/*", func(w http.ResponseWriter, r *http.Request) {})
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(a.store))
			r.Use(auth.RoleMiddleware(models.RoleAdmin))

			r.Get("/demos", demoH.ListDemos)
			r.Get("/demos/{id}", demoH.GetDemo)
			r.Delete("/demos/{id}", demoH.DeleteDemo)
			r.Post("/demos/{id}/assign", demoH.AssignCoach)
			r.Post("/demos/{id}/approve-payment", demoH.ApprovePayment)

			r.Get("/coach-applications", coachH.PendingApplications)
			r.Post("/coach-applications/{id}/approve", coachH.Approve)
			r.Get("/coaches", coachH.Roster)

			r.Get("/students", studentH.ListStudents)
			r.Get("/students/{id}", studentH.GetStudent)

			r.Post("/broadcasts", bcastH.Publish)
		})

		// outcome entry is the assigned coach's job too
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(a.store))
			r.Use(auth.RoleMiddleware(models.RoleAdmin, models.RoleCoach))
			r.Post("/demos/{id}/outcome", demoH.SubmitOutcome)
			r.Post("/demos/{id}/outcome/preview", demoH.PreviewOutcome)
		})
	})

	r.Route("/health", func(r chi.Router) {
		r.Get("/", HealthHandler(a.store))
	})
}
