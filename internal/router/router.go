package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"reportdesk/internal/config"
	"reportdesk/internal/handlers"
	"reportdesk/internal/middleware"
	"reportdesk/internal/permissions"
	"reportdesk/internal/queue"
	"reportdesk/internal/repository/postgres"
	"reportdesk/internal/service"
	"reportdesk/internal/storage"
	"reportdesk/internal/utils"
)

type Deps struct {
	Log      zerolog.Logger
	DB       *pgxpool.Pool
	Cfg      config.Config
	Producer *queue.Producer
	Uploader storage.Uploader
	Verifier handlers.IdentityVerifier
}

func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(middleware.Recoverer(d.Log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{d.Cfg.Origin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(httprate.LimitByIP(200, time.Minute))
	r.Use(middleware.WithAuth(d.Log, d.Cfg))

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		utils.Error(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		utils.Error(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	// Repos
	userRepo := postgres.NewUserRepo(d.DB)
	roleRepo := postgres.NewRoleRepo(d.DB)
	ticketRepo := postgres.NewTicketRepo(d.DB)
	reportRepo := postgres.NewReportRepo(d.DB)
	viewRepo := postgres.NewSavedViewRepo(d.DB)
	notifRepo := postgres.NewNotificationRepo(d.DB)
	catRepo := postgres.NewCategoryRepo(d.DB)
	locRepo := postgres.NewLocationRepo(d.DB)
	seqRepo := postgres.NewSequenceRepo(d.DB)

	// Services
	roleSvc := service.NewRoleService(roleRepo)
	authSvc := service.NewAuthService(userRepo, roleRepo, d.Cfg.SessionSecret)
	seqSvc := service.NewSequenceService(seqRepo)
	viewSvc := service.NewViewService(viewRepo)
	notifier := service.NewNotifier(notifRepo, d.Producer, d.Log)

	// Handlers
	ah := handlers.NewAuthHTTP(authSvc, userRepo, roleRepo, d.Verifier)
	uh := handlers.NewUserHTTP(userRepo, roleSvc, authSvc)
	rh := handlers.NewRoleHTTP(roleSvc)
	th := handlers.NewTicketHTTP(ticketRepo, notifier, seqSvc, permissions.ViewTickets)
	rph := handlers.NewReportHTTP(reportRepo, notifier, seqSvc, permissions.ViewReports)
	vh := handlers.NewViewHTTP(viewSvc)
	nh := handlers.NewNotificationHTTP(notifRepo)
	ch := handlers.NewRefDataHTTP(catRepo)
	lh := handlers.NewRefDataHTTP(locRepo)
	sh := handlers.NewStatsHTTP(ticketRepo, reportRepo)
	uph := handlers.NewUploadHTTP(d.Uploader)

	// The guard resolves permissions through the store on every request, so
	// role edits take effect without re-login.
	require := func(perms ...string) func(http.Handler) http.Handler {
		return middleware.RequirePermission(roleSvc, perms...)
	}

	// Health
	r.Get("/healthz", handlers.Health(d.DB))

	// Auth
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", ah.Register())
		r.Post("/login", ah.Login())
		r.Post("/oidc", ah.LoginOIDC())
		r.Post("/logout", ah.Logout())
		r.Get("/me", ah.Me())
	})

	items := func(h *handlers.ItemHTTP, view, create, edit, del, assign string) func(chi.Router) {
		return func(r chi.Router) {
			r.With(require(view, create)).Get("/", h.List())
			r.With(require(create)).Post("/", h.Create())
			r.Route("/{id}", func(r chi.Router) {
				r.With(require(view, create)).Get("/", h.Get())
				r.With(require(edit, assign)).Patch("/", h.Update())
				r.With(require(del)).Delete("/", h.Delete())
				r.With(require(view, create)).Post("/comments", h.AddComment())
				r.With(require(edit, create)).Post("/attachments", h.AddAttachment())
			})
		}
	}

	r.Route("/api/tickets", items(th,
		permissions.ViewTickets, permissions.CreateTickets,
		permissions.EditTickets, permissions.DeleteTickets, permissions.AssignTickets))
	r.Route("/api/reports", items(rph,
		permissions.ViewReports, permissions.CreateReports,
		permissions.EditReports, permissions.DeleteReports, permissions.AssignReports))

	r.With(require(permissions.ViewTickets, permissions.ViewReports)).
		Get("/api/stats/summary", sh.Summary())

	// Users
	r.Route("/api/users", func(r chi.Router) {
		r.With(require(permissions.ManageUsers)).Get("/", uh.List())
		r.Route("/{id}", func(r chi.Router) {
			self := middleware.RequireSelfOrPermission(roleSvc, permissions.ManageUsers)
			r.With(self).Get("/", uh.Get())
			r.With(self).Patch("/", uh.Update())
			r.With(self).Patch("/password", uh.UpdatePassword())
			r.With(require(permissions.ManageUsers)).Put("/roles", uh.ReplaceRoles())
			r.With(require(permissions.ManageUsers)).Delete("/", uh.Delete())
		})
	})

	// Roles + permission catalog
	r.With(require(permissions.ManageRoles)).Get("/api/permissions", rh.ListPermissions())
	r.Route("/api/roles", func(r chi.Router) {
		r.Use(require(permissions.ManageRoles))
		r.Get("/", rh.ListRoles())
		r.Post("/", rh.CreateRole())
		r.Get("/{name}/permissions", rh.GetRolePermissions())
		r.Put("/{name}/permissions", rh.SetRolePermissions())
		r.Post("/{name}/reset", rh.ResetRole())
	})

	// Saved views (always scoped to the caller)
	r.Route("/api/views", func(r chi.Router) {
		r.Use(require(permissions.ManageViews))
		r.Get("/", vh.List())
		r.Post("/", vh.Create())
		r.Patch("/{id}", vh.Update())
		r.Delete("/{id}", vh.Delete())
		r.Post("/{id}/default", vh.SetDefault())
	})

	// Notifications (always scoped to the caller)
	r.Route("/api/notifications", func(r chi.Router) {
		r.Use(require(permissions.ViewNotifications))
		r.Get("/", nh.List())
		r.Patch("/{id}/read", nh.MarkRead())
		r.Post("/read-all", nh.MarkAllRead())
	})

	// Reference data
	refdata := func(h *handlers.RefDataHTTP, manage string) func(chi.Router) {
		return func(r chi.Router) {
			r.With(middleware.RequireAuth).Get("/", h.List())
			r.With(require(manage)).Post("/", h.Create())
			r.With(require(manage)).Patch("/{id}", h.Update())
			r.With(require(manage)).Delete("/{id}", h.Delete())
		}
	}
	r.Route("/api/categories", refdata(ch, permissions.ManageCategories))
	r.Route("/api/locations", refdata(lh, permissions.ManageLocations))

	// Uploads
	r.With(middleware.RequireAuth).Post("/api/uploads", uph.Upload())

	return r
}
