package app

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/AwesomeSam9523/muj-bot/internal/api"
	"github.com/AwesomeSam9523/muj-bot/internal/auth"
	"github.com/AwesomeSam9523/muj-bot/internal/config"
	"github.com/AwesomeSam9523/muj-bot/internal/db"
	"github.com/AwesomeSam9523/muj-bot/internal/discord"
	"github.com/AwesomeSam9523/muj-bot/internal/notify"
	"github.com/AwesomeSam9523/muj-bot/internal/storage"
	"github.com/AwesomeSam9523/muj-bot/internal/verify"
)

/* ------------------------------------------------------------------
   App struct — runtime container
-------------------------------------------------------------------*/

type App struct {
	// configuration & infrastructure
	cfg       config.Config
	store     *storage.Database
	discord   *discord.Client
	authSvc   *auth.Service
	webRouter *gin.Engine

	// verification workflow
	cards   *verify.CardRegistry
	orch    *verify.Orchestrator
	decider *verify.Decider
}

/* ------------------------------------------------------------------
   Public getters (required by api.Backend)
-------------------------------------------------------------------*/

func (a *App) GetConfig() config.Config  { return a.cfg }
func (a *App) GetStore() api.RecordStore { return a.store }
func (a *App) GetAuth() *auth.Service    { return a.authSvc }

func (a *App) SetWebRouter(r *gin.Engine) { a.webRouter = r }

/* ------------------------------------------------------------------
   Init / Run / Close lifecycle
-------------------------------------------------------------------*/

func (a *App) Init() error {
	/* 1. configuration */
	c, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = c

	/* 2. database */
	conn, err := db.Connect(db.DSN(c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.DBName, c.DB.SSLMode))
	if err != nil {
		return err
	}
	if err := db.EnsureSchema(conn); err != nil {
		return err
	}
	a.store = storage.New(conn)
	log.Printf("connected to PostgreSQL at %s:%d", c.DB.Host, c.DB.Port)

	/* 3. ops API auth */
	a.authSvc = auth.NewService(c.JWTSecret)

	/* 4. discord client + verification workflow */
	client, err := discord.New(c.Discord)
	if err != nil {
		return err
	}
	a.discord = client

	var notifier verify.Notifier
	if m := notify.NewMailer(c.SMTP); m != nil {
		notifier = m
		log.Printf("moderator mail notifications enabled (%s)", c.SMTP.To)
	}

	a.cards = verify.NewCardRegistry()
	intake := &verify.Intake{Chat: client, Timeout: c.EvidenceTimeout}
	a.orch = verify.NewOrchestrator(a.store, client, intake, a.cards, notifier)
	a.decider = verify.NewDecider(a.store, client, a.cards, c.CardCleanupDelay)
	client.Bind(a.orch, a.decider)

	return nil
}

// Run connects the gateway and rehydrates the approval cards for every
// record that was still pending before the last shutdown.
func (a *App) Run() error {
	if err := a.discord.Open(); err != nil {
		return err
	}

	n, err := a.cards.Rehydrate(a.store)
	if err != nil {
		return err
	}
	log.Printf("rehydrated %d pending approval card(s)", n)
	return nil
}

func (a *App) Close() error {
	if a.discord != nil {
		_ = a.discord.Close()
	}
	if a.store != nil {
		_ = a.store.Close()
	}
	return nil
}
