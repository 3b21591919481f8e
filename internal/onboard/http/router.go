package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/talentwire/onboard/internal/onboard/service"
	"github.com/talentwire/onboard/internal/onboard/store"
	"github.com/talentwire/onboard/pkg/httpx"
	"github.com/talentwire/onboard/pkg/jwtx"
	"github.com/talentwire/onboard/pkg/slogx"

	_ "github.com/talentwire/onboard/api/onboard" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	AdminService   *service.AdminService
	LinkService    *service.LinkService
	SectionService *service.SectionService
	MasterService  *service.MasterService
	SalaryService  *service.SalaryService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerLinks()
	r.registerOnboarding()
	r.registerEmployees()
	r.registerSalary()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			TalentWire Onboarding Service API
//	@version		0.1.0
//	@description	Backend for the multi-step employee onboarding workflow: candidate
//	@description	section forms behind one-time links, HR review and merge of the
//	@description	master employee record, and salary breakdown computation.
//
//	@contact.name				TalentWire Platform Team
//	@contact.url				https://github.com/talentwire/onboard
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Admin JWT session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	loginHandler := &LoginHandler{AdminService: r.AdminService}

	// POST /login - strict rate limit (credential guessing)
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerLinks() {
	issueHandler := &LinkIssueHandler{LinkService: r.LinkService}
	listHandler := &LinkListHandler{LinkService: r.LinkService}

	r.Mux.Handle("POST /v1/links",
		httpx.Chain(issueHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("admin:write"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("GET /v1/links",
		httpx.Chain(listHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("admin:read"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerOnboarding() {
	validateHandler := &OnboardingValidateHandler{LinkService: r.LinkService, SectionService: r.SectionService}
	progressHandler := &OnboardingProgressHandler{SectionService: r.SectionService}
	sectionGetHandler := &SectionGetHandler{SectionService: r.SectionService}
	sectionSaveHandler := &SectionSaveHandler{SectionService: r.SectionService}
	declarationHandler := &DeclarationSubmitHandler{SectionService: r.SectionService}

	// All candidate endpoints are gated by the link token itself; the token
	// also keys the rate limit so one candidate cannot starve another.
	r.Mux.Handle("GET /v1/onboarding/{token}",
		httpx.Chain(validateHandler,
			httpx.RateLimitByLinkToken(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /v1/onboarding/{token}/progress",
		httpx.Chain(progressHandler,
			httpx.RateLimitByLinkToken(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /v1/onboarding/{token}/sections/{section}",
		httpx.Chain(sectionGetHandler,
			httpx.RateLimitByLinkToken(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("PUT /v1/onboarding/{token}/sections/{section}",
		httpx.Chain(sectionSaveHandler,
			httpx.RateLimitByLinkToken(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("POST /v1/onboarding/{token}/declaration",
		httpx.Chain(declarationHandler,
			httpx.RateLimitByLinkToken(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerEmployees() {
	listHandler := &EmployeeListHandler{MasterService: r.MasterService}
	getHandler := &EmployeeGetHandler{MasterService: r.MasterService}
	documentHandler := &EmployeeDocumentHandler{MasterService: r.MasterService}
	sectionHandler := &EmployeeSectionHandler{MasterService: r.MasterService}
	officeHandler := &EmployeeOfficeHandler{MasterService: r.MasterService}
	submitHandler := &EmployeeSubmitHandler{MasterService: r.MasterService}
	statusHandler := &EmployeeStatusHandler{MasterService: r.MasterService}
	deleteHandler := &EmployeeDeleteHandler{MasterService: r.MasterService}

	read := func(h http.Handler) http.Handler {
		return httpx.Chain(h,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("admin:read"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)
	}
	write := func(h http.Handler) http.Handler {
		return httpx.Chain(h,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("admin:write"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("GET /v1/employees", read(listHandler))
	r.Mux.Handle("GET /v1/employees/{draftId}", read(getHandler))
	r.Mux.Handle("GET /v1/employees/{draftId}/document", read(documentHandler))
	r.Mux.Handle("PUT /v1/employees/{draftId}/sections/{section}", write(sectionHandler))
	r.Mux.Handle("PUT /v1/employees/{draftId}/office-use", write(officeHandler))
	r.Mux.Handle("POST /v1/employees/{draftId}/submit", write(submitHandler))
	r.Mux.Handle("POST /v1/employees/{draftId}/status", write(statusHandler))
	r.Mux.Handle("DELETE /v1/employees/{draftId}", write(deleteHandler))
}

func (r *Router) registerSalary() {
	breakdownHandler := &SalaryBreakdownHandler{SalaryService: r.SalaryService}

	r.Mux.Handle("POST /v1/salary/breakdown",
		httpx.Chain(breakdownHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("admin:read"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}
