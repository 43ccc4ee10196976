package main

import (
	"os"

	"github.com/GuiaBolso/darwin"
	"github.com/codingconcepts/env"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/rewindfm/schedule/internal/admin"
	"github.com/rewindfm/schedule/internal/db"
	"github.com/rewindfm/schedule/internal/entry"
	"github.com/rewindfm/schedule/internal/lineup"
	"github.com/rewindfm/schedule/internal/migrations"
	"github.com/rewindfm/schedule/internal/player"
	"github.com/rewindfm/schedule/internal/queries"
	"github.com/rewindfm/schedule/internal/rmq"
	"github.com/rewindfm/schedule/internal/state"
)

type Config struct {
	BindAddr   string `env:"BIND_ADDR"`
	ListenPort uint16 `env:"LISTEN_PORT" default:"5070"`

	// Fallback stream URL served until a station row carries its own
	StreamUrl string `env:"STREAM_URL"`

	DatabaseHost     string `env:"PGHOST" required:"true"`
	DatabasePort     int    `env:"PGPORT" required:"true"`
	DatabaseName     string `env:"PGDATABASE" required:"true"`
	DatabaseUser     string `env:"PGUSER" required:"true"`
	DatabasePassword string `env:"PGPASSWORD" required:"true"`
	DatabaseSslMode  string `env:"PGSSLMODE"`

	RmqHost     string `env:"RMQ_HOST" required:"true"`
	RmqPort     int    `env:"RMQ_PORT" required:"true"`
	RmqVhost    string `env:"RMQ_VHOST" required:"true"`
	RmqUser     string `env:"RMQ_USER" required:"true"`
	RmqPassword string `env:"RMQ_PASSWORD" required:"true"`
}

func main() {
	app, ctx := entry.NewApplication("schedule")
	defer app.Stop()

	// Parse config from environment variables
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		app.Fail("Failed to load .env file", err)
	}
	config := Config{}
	if err := env.Set(&config); err != nil {
		app.Fail("Failed to load config", err)
	}

	// Configure our database connection, apply migrations, and initialize a
	// Queries struct, so we can view and modify the weekly schedule
	connectionString := db.FormatConnectionString(
		config.DatabaseHost,
		config.DatabasePort,
		config.DatabaseName,
		config.DatabaseUser,
		config.DatabasePassword,
		config.DatabaseSslMode,
	)
	database, err := sqlx.Open("postgres", connectionString)
	if err != nil {
		app.Fail("Failed to open sql.DB", err)
	}
	defer database.Close()
	if err := database.Ping(); err != nil {
		app.Fail("Failed to connect to database", err)
	}
	if err := migrations.Apply(database.DB, darwin.PostgresDialect{}); err != nil {
		app.Fail("Failed to apply database migrations", err)
	}
	q := queries.New(database)

	// Initialize an AMQP client and prepare a producer that announces every
	// schedule change on the schedule-events queue
	amqpConn, err := amqp.Dial(rmq.FormatConnectionString(config.RmqHost, config.RmqPort, config.RmqVhost, config.RmqUser, config.RmqPassword))
	if err != nil {
		app.Fail("Failed to connect to AMQP server", err)
	}
	defer amqpConn.Close()
	scheduleEventsProducer, err := rmq.NewProducer(amqpConn, "schedule-events")
	if err != nil {
		app.Fail("Failed to initialize AMQP producer for schedule-events", err)
	}

	// Prepare a state.Writer interface, the sole mutation path for the weekly
	// schedule: it validates, writes, and propagates to schedule-events
	writer := state.NewWriter(q, scheduleEventsProducer)

	// Start setting up our HTTP handlers, using gorilla/mux for routing
	r := mux.NewRouter()

	// The admin API manages the weekly schedule; deployments terminate auth
	// upstream and can add middleware on this subrouter
	{
		adminServer := admin.NewServer(q, writer)
		adminServer.RegisterRoutes(r.PathPrefix("/admin").Subrouter())
	}

	// The public read API serves the weekly lineup and schedule listings
	{
		lineupServer := lineup.NewServer(q)
		lineupServer.RegisterRoutes(r)
	}

	// The player API resolves what's on air right now
	{
		playerServer := player.NewServer(q, player.RealClock{}, config.StreamUrl)
		playerServer.RegisterRoutes(r)
	}

	r.Path("/metrics").Handler(promhttp.Handler())

	// Handle incoming HTTP connections until our top-level context is
	// canceled, at which point shut down cleanly
	entry.RunServer(ctx, app.Log(), r, config.BindAddr, config.ListenPort)
}
