package app

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/nerdfault/quill/internal/chat"
	"github.com/nerdfault/quill/internal/config"
	"github.com/nerdfault/quill/internal/dispatcher"
	"github.com/nerdfault/quill/internal/eventbus"
	"github.com/nerdfault/quill/internal/logging"
	"github.com/nerdfault/quill/internal/models"
)

// Application manages the complete application lifecycle
type Application struct {
	config     *config.Config
	eventBus   *eventbus.EventBus
	dispatcher *dispatcher.EventDispatcher
	service    *chat.Service
	model      *AppModel
	logCloser  io.Closer
}

type AppModel struct {
	appModel   models.AppModel
	dispatcher *dispatcher.EventDispatcher
}

func NewApplication() (*Application, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	// Logging goes to disk; the terminal belongs to the TUI.
	logger := zerolog.Nop()
	var logCloser io.Closer
	if logPath, err := cfg.LogFile(); err == nil {
		if fileLogger, closer, err := logging.New(logPath, cfg.LogLevel); err == nil {
			logger = fileLogger
			logCloser = closer
		}
	}

	eb := eventbus.NewEventBus()
	disp := dispatcher.NewEventDispatcher(eb)
	service := chat.NewService(cfg, eb, logger)

	model := &AppModel{
		appModel:   createInitialAppModel(service),
		dispatcher: disp,
	}

	return &Application{
		config:     cfg,
		eventBus:   eb,
		dispatcher: disp,
		service:    service,
		model:      model,
		logCloser:  logCloser,
	}, nil
}

func (app *Application) Start() error {
	app.service.Start()

	p := tea.NewProgram(app.model)
	_, err := p.Run()

	return err
}

func (app *Application) Stop() {
	app.service.Stop()
	app.dispatcher.Stop()
	app.eventBus.Close()
	if app.logCloser != nil {
		app.logCloser.Close()
	}
}

func createInitialAppModel(service *chat.Service) models.AppModel {
	// No initial messages in UI - they come from core as single source of truth
	return models.AppModel{
		Messages:         make([]models.Message, 0),
		Status:           "Ready",
		Loading:          false,
		ChatServiceReady: service.IsReady(),
	}
}
