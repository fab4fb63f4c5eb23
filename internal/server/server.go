package server

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/avelkovic/matchpoint/internal/config"
	"github.com/avelkovic/matchpoint/internal/modules/auth"
	authcommands "github.com/avelkovic/matchpoint/internal/modules/auth/commands"
	authdomain "github.com/avelkovic/matchpoint/internal/modules/auth/domain"
	"github.com/avelkovic/matchpoint/internal/modules/core"
	eventcommands "github.com/avelkovic/matchpoint/internal/modules/event/commands"
	eventdomain "github.com/avelkovic/matchpoint/internal/modules/event/domain"
	eventqueries "github.com/avelkovic/matchpoint/internal/modules/event/queries"
	"github.com/avelkovic/matchpoint/internal/modules/location"
	locationcommands "github.com/avelkovic/matchpoint/internal/modules/location/commands"
	locationqueries "github.com/avelkovic/matchpoint/internal/modules/location/queries"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/migrate-go"
	"github.com/go-chi/chi"
	"github.com/go-chi/cors"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

type Server interface {
	Start() error
	Stop() error
}

var _ Server = &HTTPServer{}

// HTTPServer acts as the composition root for the application.
type HTTPServer struct {
	server  *http.Server
	pollers *pollers
}

func NewHTTPServer(config config.Config) (Server, error) {
	baseCtx := context.Background()

	zap.ReplaceGlobals(config.Logger)

	db, err := sql.Open("postgres", config.DatabaseURL)
	if err != nil {
		return nil, err
	}

	if err := migrate.Run(baseCtx, db, config.MigrationsPath); err != nil {
		return nil, err
	}

	requestLoggingBehavior := core.RequestLoggingBehavior{Logger: config.Logger}
	handlerErrorLoggingBehavior := core.HandlerErrorLoggingBehavior{Logger: config.Logger}
	requestValidationBehavior := core.RequestValidationBehavior{}

	mediator.RegisterPipelineBehavior(&requestLoggingBehavior)
	mediator.RegisterPipelineBehavior(&handlerErrorLoggingBehavior)
	mediator.RegisterPipelineBehavior(&requestValidationBehavior)

	emailClient := core.NewEmailClient(config.Email.Host, config.Email.Username, config.Email.Password)

	// handler registration

	// event

	err = mediator.RegisterRequestHandler[eventcommands.CreateEventCommand, eventcommands.CreateEventResponse](
		eventcommands.NewCreateEventCommandHandler(db),
	)
	if err != nil {
		return nil, err
	}

	err = mediator.RegisterRequestHandler[eventcommands.UpdateAvailabilityCommand, core.Unit](
		eventcommands.NewUpdateAvailabilityCommandHandler(db),
	)
	if err != nil {
		return nil, err
	}

	err = mediator.RegisterRequestHandler[eventcommands.CancelEventCommand, core.Unit](
		eventcommands.NewCancelEventCommandHandler(db),
	)
	if err != nil {
		return nil, err
	}

	err = mediator.RegisterRequestHandler[eventcommands.SubmitJoinRequestCommand, eventcommands.SubmitJoinRequestResponse](
		eventcommands.NewSubmitJoinRequestCommandHandler(db),
	)
	if err != nil {
		return nil, err
	}

	err = mediator.RegisterRequestHandler[eventcommands.CancelJoinRequestCommand, core.Unit](
		eventcommands.NewCancelJoinRequestCommandHandler(db),
	)
	if err != nil {
		return nil, err
	}

	err = mediator.RegisterRequestHandler[eventcommands.AcceptJoinRequestCommand, eventdomain.Confirmation](
		eventcommands.NewAcceptJoinRequestCommandHandler(db, emailClient, config.Email.Sender),
	)
	if err != nil {
		return nil, err
	}

	err = mediator.RegisterRequestHandler[eventcommands.ReportReservationFailureCommand, core.Unit](
		eventcommands.NewReportReservationFailureCommandHandler(db),
	)
	if err != nil {
		return nil, err
	}

	err = mediator.RegisterRequestHandler[eventcommands.CompletePastEventsCommand, eventcommands.CompletePastEventsResponse](
		eventcommands.NewCompletePastEventsCommandHandler(db),
	)
	if err != nil {
		return nil, err
	}

	err = mediator.RegisterRequestHandler[eventqueries.GetEventQuery, eventdomain.Event](
		eventqueries.NewGetEventQueryHandler(db),
	)
	if err != nil {
		return nil, err
	}

	err = mediator.RegisterRequestHandler[eventqueries.GetOwnedEventsQuery, []eventdomain.Event](
		eventqueries.NewGetOwnedEventsQueryHandler(db),
	)
	if err != nil {
		return nil, err
	}

	err = mediator.RegisterRequestHandler[eventqueries.GetOpenEventsQuery, []eventdomain.Event](
		eventqueries.NewGetOpenEventsQueryHandler(db),
	)
	if err != nil {
		return nil, err
	}

	// location

	locationRepository := location.NewLocationRepository(db)

	err = mediator.RegisterRequestHandler[locationcommands.CreateLocationCommand, locationcommands.CreateLocationResponse](
		locationcommands.NewCreateLocationCommandHandler(locationRepository),
	)
	if err != nil {
		return nil, err
	}

	err = mediator.RegisterRequestHandler[locationqueries.GetLocationQuery, location.Location](
		locationqueries.NewGetLocationQueryHandler(locationRepository),
	)
	if err != nil {
		return nil, err
	}

	err = mediator.RegisterRequestHandler[locationqueries.ListLocationsQuery, []location.Location](
		locationqueries.NewListLocationsQueryHandler(locationRepository),
	)
	if err != nil {
		return nil, err
	}

	// auth

	passwordHasher := authdomain.NewPasswordHasher(sha256.New)

	err = mediator.RegisterRequestHandler[authcommands.RegisterCommand, core.Unit](
		authcommands.NewRegisterCommandHandler(db, passwordHasher),
	)
	if err != nil {
		return nil, err
	}

	err = mediator.RegisterRequestHandler[authcommands.LoginCommand, authdomain.Session](
		authcommands.NewLoginCommandHandler(db, passwordHasher),
	)
	if err != nil {
		return nil, err
	}

	err = mediator.RegisterRequestHandler[authcommands.VerifyRegistrationCommand, core.Unit](
		authcommands.NewVerifyRegistrationCommandHandler(db),
	)
	if err != nil {
		return nil, err
	}

	err = mediator.RegisterRequestHandler[authcommands.ProcessActivationCodesCommand, core.Unit](
		authcommands.NewProcessActivationCodesCommandHandler(
			db,
			emailClient,
			authcommands.EmailConfiguration{Sender: config.Email.Sender},
		),
	)
	if err != nil {
		return nil, err
	}

	err = mediator.RegisterRequestHandler[authcommands.ReSendActivationEmailCommand, core.Unit](
		authcommands.NewReSendActivationEmailCommandHandler(db, emailClient, config.Email.Sender),
	)
	if err != nil {
		return nil, err
	}

	// http

	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", core.CorrelationIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r := router{
		mux: mux,
		middleware: []httpMiddleware{
			baseContextMiddleware(baseCtx),
			core.CorrelationIDHTTPMiddleware,
		},
	}

	authenticated := auth.AuthenticationMiddleware(db)

	r.register(http.MethodPost, "/events", eventcommands.HandleCreateEvent, authenticated)
	r.register(http.MethodGet, "/events", eventqueries.HandleGetOwnedEvents, authenticated)
	r.register(http.MethodGet, "/events/open", eventqueries.HandleGetOpenEvents)
	r.register(http.MethodGet, "/events/{id}", eventqueries.HandleGetEvent, authenticated)

	r.register(http.MethodPut, "/events/{id}/availability", eventcommands.HandleUpdateAvailability, authenticated)
	r.register(http.MethodPut, "/events/{id}/actions/cancel", eventcommands.HandleCancelEvent, authenticated)
	r.register(http.MethodPost, "/events/{id}/actions/accept", eventcommands.HandleAcceptJoinRequest, authenticated)
	r.register(http.MethodPost, "/events/{id}/actions/report-failure", eventcommands.HandleReportReservationFailure, authenticated)

	r.register(http.MethodPost, "/events/{id}/join-requests", eventcommands.HandleSubmitJoinRequest, authenticated)
	r.register(http.MethodPut, "/events/{id}/join-requests/actions/cancel", eventcommands.HandleCancelJoinRequest, authenticated)

	r.register(http.MethodPost, "/locations", locationcommands.HandleCreateLocation, authenticated)
	r.register(http.MethodGet, "/locations", locationqueries.HandleListLocations)
	r.register(http.MethodGet, "/locations/{id}", locationqueries.HandleGetLocation)

	r.register(http.MethodPost, "/auth/login", authcommands.HandleLogin)
	r.register(http.MethodPost, "/auth/logout", authcommands.HandleLogout)

	r.register(http.MethodPost, "/auth/registrations", authcommands.HandleRegistration)
	r.register(http.MethodPost, "/auth/registrations/actions/confirm", authcommands.HandleVerifyRegistration)
	r.register(http.MethodPost, "/auth/registrations/actions/send-activation-code", authcommands.HandleReSendActivationEmail)

	server := http.Server{
		Addr:    net.JoinHostPort("", strconv.Itoa(config.Port)),
		Handler: mux,
	}

	p := newPollers(baseCtx, config.Pollers)

	return &HTTPServer{server: &server, pollers: p}, nil
}

func (s *HTTPServer) Start() error {
	s.pollers.start()

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

func (s *HTTPServer) Stop() error {
	s.pollers.stop()
	return s.server.Close()
}

type httpMiddleware func(http.HandlerFunc) http.HandlerFunc

type router struct {
	mux        chi.Router
	middleware []httpMiddleware
}

func (r *router) register(method string, pattern string, handler http.HandlerFunc, middleware ...httpMiddleware) {
	h := handler

	allMiddleware := append(r.middleware, middleware...)

	for i := len(allMiddleware) - 1; i >= 0; i-- {
		h = allMiddleware[i](h)
	}

	r.mux.MethodFunc(method, pattern, h)
}

func baseContextMiddleware(baseCtx context.Context) httpMiddleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestCtx := baseCtx

			if v, ok := ctx.Value(http.ServerContextKey).(*http.Server); ok {
				requestCtx = context.WithValue(requestCtx, http.ServerContextKey, v)
			}

			if v, ok := ctx.Value(http.LocalAddrContextKey).(net.Addr); ok {
				requestCtx = context.WithValue(requestCtx, http.LocalAddrContextKey, v)
			}

			if v := chi.RouteContext(ctx); v != nil {
				requestCtx = context.WithValue(requestCtx, chi.RouteCtxKey, v)
			}

			next.ServeHTTP(w, r.WithContext(requestCtx))
		}
	}
}

type pollers struct {
	baseCtx context.Context
	config  config.PollerConfiguration
	done    chan struct{}
}

func newPollers(baseCtx context.Context, config config.PollerConfiguration) *pollers {
	return &pollers{baseCtx: baseCtx, config: config, done: make(chan struct{})}
}

func (p *pollers) start() {
	go p.run(p.config.EventCompletionInterval, func(ctx context.Context) {
		response, err := mediator.Send[eventcommands.CompletePastEventsCommand, eventcommands.CompletePastEventsResponse](
			ctx,
			eventcommands.CompletePastEventsCommand{},
		)
		if err != nil {
			zap.L().Error("failed to complete past events", zap.Error(err))
			return
		}

		if response.Completed > 0 {
			zap.L().Info("completed past events", zap.Int("count", response.Completed))
		}
	})

	go p.run(p.config.ActivationEmailInterval, func(ctx context.Context) {
		_, err := mediator.Send[authcommands.ProcessActivationCodesCommand, core.Unit](
			ctx,
			authcommands.ProcessActivationCodesCommand{},
		)
		if err != nil {
			zap.L().Error("failed to process activation codes", zap.Error(err))
		}
	})
}

func (p *pollers) stop() {
	close(p.done)
}

func (p *pollers) run(interval time.Duration, poll func(context.Context)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.done:
			return
		case <-ticker.C:
			poll(p.baseCtx)
		}
	}
}
